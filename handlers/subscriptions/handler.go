package subscriptions

import (
	"net/http"
	"os"
	"time"

	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	checkoutSession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// @Summary Create a Stripe Checkout session for the premium subscription
// @Description Start a Stripe payment for the platform subscription that unlocks premium chapters. Returns the session id and URL for the frontend.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId, url"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 409 {object} map[string]string "error: Already subscribed"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /subscriptions/checkout [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var payer models.User
	if err := h.DB.First(&payer, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "User not found in CreateCheckoutSession")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Subscription
	err := h.DB.Where("user_id = ? AND status IN (?)",
		payer.ID, []models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionPending}).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active or pending subscription"})
		return
	}

	if payer.StripeCustomerId != "" {
		// Make sure the stored customer still exists on Stripe.
		if _, err := customer.Get(payer.StripeCustomerId, nil); err != nil {
			payer.StripeCustomerId = ""
		}
	}
	if payer.StripeCustomerId == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Name:  stripe.String(payer.UserName),
			Email: stripe.String(payer.Email),
		})
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error creating Stripe customer in CreateCheckoutSession")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe customer"})
			return
		}
		h.DB.Model(&payer).Update("stripe_customer_id", cust.ID)
		payer.StripeCustomerId = cust.ID
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(payer.StripeCustomerId),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(os.Getenv("STRIPE_PRICE_ID")),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		ClientReferenceID: stripe.String(payer.ID),
	}

	s, err := checkoutSession.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating Stripe session in CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sub := models.Subscription{
		UserID: payer.ID,
		Status: models.SubscriptionPending,
	}
	if err := h.DB.Create(&sub).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error recording pending subscription in CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording subscription"})
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe checkout session created in CreateCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// @Summary Cancel my subscription
// @Description Cancel the Stripe subscription and mark it CANCELED
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "Subscription ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription canceled successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/{subscriptionId} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	subscriptionId := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	if err := h.DB.First(&subscription, "id = ?", subscriptionId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to cancel this subscription"})
		return
	}

	if subscription.StripeSubscriptionId != "" {
		_, err := stripeSubscription.Cancel(subscription.StripeSubscriptionId, &stripe.SubscriptionCancelParams{
			Prorate: stripe.Bool(false),
		})
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Stripe cancel failed in CancelSubscription")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when canceling the Stripe subscription"})
			return
		}
	}

	now := time.Now()
	err := h.DB.Model(&subscription).Updates(map[string]interface{}{
		"status":   models.SubscriptionCanceled,
		"end_date": &now,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating status in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when updating the subscription status"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription canceled in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled successfully"})
}

// @Summary List my subscriptions
// @Description All subscriptions of the authenticated user, newest first
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func (h *Handler) GetUserSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscriptions []models.Subscription
	err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&subscriptions).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// @Summary Subscription detail
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "Subscription ID"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{subscriptionId} [get]
func (h *Handler) GetSubscriptionDetail(c *gin.Context) {
	subscriptionId := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	if err := h.DB.First(&subscription, "id = ?", subscriptionId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this subscription"})
		return
	}

	c.JSON(http.StatusOK, subscription)
}
