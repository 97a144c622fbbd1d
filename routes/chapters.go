package routes

import (
	"tene-backend/handlers/chapters"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ChaptersRoutes(r *gin.Engine, deps Deps) {
	h := chapters.New(deps.DB)

	r.GET("/novels/:id/chapters", h.ListChapters)
	// Optional auth: the lock check needs to know who is asking when a
	// token is present, anonymous readers still get free chapters.
	r.GET("/chapters/:id", middleware.OptionalAuth(), h.GetChapter)

	r.POST("/chapters/:id/like", middleware.JWTAuth(), h.ToggleLike)

	adminRoutes := r.Group("")
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.POST("/novels/:id/chapters", h.CreateChapter)
		adminRoutes.DELETE("/chapters/:id", h.DeleteChapter)
	}
}
