package middleware

import (
	"net/http"
	"strings"

	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.Trim(c.GetHeader("Authorization"), "\"' ")
	if authHeader == "" {
		return "", false
	}

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return strings.Trim(parts[1], "\"' "), true
}

func extractJwtClaims(c *gin.Context) (jwt.MapClaims, bool) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or malformed"})
		c.Abort()
		return nil, false
	}

	claims, err := utils.DecodeJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		c.Abort()
		return nil, false
	}
	return claims, true
}

// JWTAuth requires a valid bearer token and exposes user_id and role to the
// handler.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// OptionalAuth sets user_id/role when a valid token is present and lets the
// request through either way. List endpoints use it so anonymous readers
// get the public view and signed-in readers get their likedByMe flags.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := utils.DecodeJWT(token); err == nil {
				c.Set("user_id", claims["user_id"])
				c.Set("role", claims["role"])
			}
		}
		c.Next()
	}
}

// AdminAuth requires a valid token carrying the ADMIN role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("role", claims["role"])

		role, exists := claims["role"]
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if role != "ADMIN" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
