package routes

import (
	"tene-backend/handlers/comments"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func CommentsRoutes(r *gin.Engine, deps Deps) {
	h := comments.New(deps.DB, deps.Notifier)

	// Reading is public; likedByMe flags appear when a token is sent.
	r.GET("/novels/:id/comments", middleware.OptionalAuth(), h.ListNovelComments)
	r.GET("/chapters/:id/comments", middleware.OptionalAuth(), h.ListChapterComments)

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	{
		authed.POST("/novels/:id/comments", h.CreateNovelComment)
		authed.POST("/chapters/:id/comments", h.CreateChapterComment)
		authed.PUT("/comments/:id", h.UpdateComment)
		authed.DELETE("/comments/:id", h.DeleteComment)
		authed.POST("/comments/:id/like", h.ToggleLike)
	}
}
