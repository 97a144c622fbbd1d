package routes

import (
	"tene-backend/handlers/progress"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ProgressRoutes(r *gin.Engine, deps Deps) {
	h := progress.New(deps.DB)

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	{
		authed.PUT("/novels/:id/progress", h.Save)
		authed.GET("/novels/:id/progress", h.Get)
		authed.GET("/progress", h.ListMine)
	}
}
