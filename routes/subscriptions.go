package routes

import (
	"tene-backend/handlers/subscriptions"
	"tene-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionsRoutes(r *gin.Engine, deps Deps) {
	h := subscriptions.New(deps.DB)

	// Stripe authenticates this route with its signature, not a JWT.
	r.POST("/subscriptions/webhook", h.StripeWebhook)

	authed := r.Group("/subscriptions")
	authed.Use(middleware.JWTAuth())
	{
		authed.POST("/checkout", h.CreateCheckoutSession)
		authed.GET("", h.GetUserSubscriptions)
		authed.GET("/:subscriptionId", h.GetSubscriptionDetail)
		authed.DELETE("/:subscriptionId", h.CancelSubscription)
	}
}
