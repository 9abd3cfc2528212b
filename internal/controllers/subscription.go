package controllers

import (
	"errors"
	"net/http"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterSubscriptionRoutes registers the routes for subscriptions with
// the RouterGroup that is passed.
func (co Controller) RegisterSubscriptionRoutes(r *gin.RouterGroup) {
	r.GET("/current", co.GetCurrentSubscription)
	r.POST("/webhook", co.SubscriptionWebhook)
}

// SubscriptionResponse is a subscription with the derived entitlement.
type SubscriptionResponse struct {
	models.Subscription
	Active bool `json:"active" example:"true"`
}

// WebhookBody is the payment provider's callback payload.
type WebhookBody struct {
	OwnerID                string `json:"ownerId" example:"user_2Nf"`
	ExternalSubscriptionID string `json:"externalSubscriptionId" example:"sub_1OxYzA"`
	Status                 string `json:"status" example:"active"`
}

// GetCurrentSubscription returns the authenticated user's subscription and
// the entitlement derived from its stored status. 404 when the user never
// subscribed.
func (co Controller) GetCurrentSubscription(c *gin.Context) {
	var subscription models.Subscription
	err := co.DB.First(&subscription, "owner_id = ?", owner(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": SubscriptionResponse{
		Subscription: subscription,
		Active:       subscription.Active(),
	}})
}

// SubscriptionWebhook upserts the subscription state reported by the
// payment provider. The payload names its owner explicitly since the
// provider calls for any user.
func (co Controller) SubscriptionWebhook(c *gin.Context) {
	var body WebhookBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	if body.OwnerID == "" {
		c.JSON(http.StatusBadRequest, httpError{Error: "the ownerId field must be set"})
		return
	}

	var subscription models.Subscription
	err := co.DB.First(&subscription, "owner_id = ?", body.OwnerID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		subscription = models.Subscription{
			OwnerID:                body.OwnerID,
			ExternalSubscriptionID: body.ExternalSubscriptionID,
			Status:                 body.Status,
		}

		if err := co.Syncer.CreateSubscription(c.Request.Context(), &subscription); err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"data": subscription})
		return
	}

	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	updated, err := co.Syncer.UpdateSubscription(c.Request.Context(), subscription.ID, models.Subscription{
		ExternalSubscriptionID: body.ExternalSubscriptionID,
		Status:                 body.Status,
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}
