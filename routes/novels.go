package routes

import (
	"tene-backend/handlers/novels"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func NovelsRoutes(r *gin.Engine, deps Deps) {
	h := novels.New(deps.DB, deps.Cache)

	// Public catalog
	r.GET("/novels", h.GetAllNovels)
	r.GET("/novels/:id", h.GetNovelByID)

	// Catalog management is admin only
	adminRoutes := r.Group("/novels")
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.POST("", h.CreateNovel)
		adminRoutes.PUT("/:id", h.UpdateNovel)
		adminRoutes.DELETE("/:id", h.DeleteNovel)
	}
}
