package routes

import (
	"tene-backend/handlers/bookmarks"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func BookmarksRoutes(r *gin.Engine, deps Deps) {
	h := bookmarks.New(deps.DB)

	r.POST("/novels/:id/bookmark", middleware.JWTAuth(), h.Toggle)
	r.GET("/bookmarks", middleware.JWTAuth(), h.ListMine)
}
