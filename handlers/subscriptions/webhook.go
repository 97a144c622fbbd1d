package subscriptions

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

// StripeWebhook receives the payment lifecycle events. Signature
// verification is the only authentication on this route.
// @Summary Stripe webhook endpoint
// @Tags subscriptions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "error: Bad payload or signature"
// @Router /subscriptions/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cannot read request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(c, event)
	case "invoice.payment_succeeded":
		h.handleInvoicePaymentSucceeded(c, event)
	case "payment_intent.payment_failed":
		h.handlePaymentIntentFailed(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

// handleCheckoutSessionCompleted activates the pending subscription the
// checkout was started for.
func (h *Handler) handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing CheckoutSession"})
		return
	}

	userID := session.ClientReferenceID
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ClientReferenceID"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found for this session"})
		return
	}

	stripeSubID := ""
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		err := tx.Where("user_id = ? AND status = ?", user.ID, models.SubscriptionPending).
			Order("created_at DESC").First(&sub).Error
		if err != nil {
			// Webhook raced the checkout handler: activate a fresh row.
			sub = models.Subscription{UserID: user.ID}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":                 models.SubscriptionActive,
			"stripe_subscription_id": stripeSubID,
			"start_date":             time.Now(),
		}).Error; err != nil {
			return err
		}

		// Promote the reader so locked chapters open without another lookup
		// path; the role goes back to USER when the subscription ends.
		if user.Role == models.UserRole {
			return tx.Model(&user).Update("role", models.SubscriberRole).Error
		}
		return nil
	})
	if err != nil {
		utils.LogError(err, "Error activating subscription in handleCheckoutSessionCompleted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error activating subscription"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Subscription activated in handleCheckoutSessionCompleted")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

// handleInvoicePaymentSucceeded records a payment row against the user's
// active subscription.
func (h *Handler) handleInvoicePaymentSucceeded(c *gin.Context, event stripe.Event) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Invoice"})
		return
	}

	if invoice.Customer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing customer on invoice"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "stripe_customer_id = ?", invoice.Customer.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found for this customer"})
		return
	}

	var sub models.Subscription
	err := h.DB.Where("user_id = ? AND status = ?", user.ID, models.SubscriptionActive).
		Order("created_at DESC").First(&sub).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription for this user"})
		return
	}

	payment := models.SubscriptionPayment{
		SubscriptionID: sub.ID,
		Amount:         int(invoice.AmountPaid),
		PaidAt:         time.Now(),
	}

	if err := h.DB.Create(&payment).Error; err != nil {
		utils.LogError(err, "Error recording payment in handleInvoicePaymentSucceeded")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording payment"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Subscription payment recorded in handleInvoicePaymentSucceeded")
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

// handlePaymentIntentFailed only logs: the subscription stays in its
// current state until Stripe gives up and cancels it.
func (h *Handler) handlePaymentIntentFailed(c *gin.Context, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing PaymentIntent"})
		return
	}

	utils.LogError(nil, "Stripe payment failed: "+intent.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Payment failure noted"})
}
