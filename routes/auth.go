package routes

import (
	"tene-backend/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, deps Deps) {
	h := auth.New(deps.DB)

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}
