package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// ---------------- ACCOUNT ONBOARDING ----------------
func CreateAccountLink(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		var input struct {
			UserID string `json:"userId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.UserID != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		accountID, url, err := cfg.Payments.CreateAccountWithOnboardingLink(ctx)
		if err != nil {
			cfg.Logger.Error("stripe account link failed", zap.String("userId", uid), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
			return
		}

		// Persist the connected account on the user so payouts can target it later.
		if err := cfg.Store.Update(ctx, services.CollectionUsers, uid,
			store.SetField("stripeAccountId", accountID),
			store.SetField("updatedAt", time.Now()),
		); err != nil {
			cfg.Logger.Error("failed to save stripe account id", zap.String("userId", uid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save payment account"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// ---------------- PAYMENT INTENT ----------------
func CreatePaymentIntent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Amount             int64  `json:"amount" binding:"required"`
			OrganizerAccountID string `json:"organizerAccountId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number of cents"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		clientSecret, err := cfg.Payments.CreatePaymentIntent(ctx, input.Amount, input.OrganizerAccountID)
		if err != nil {
			cfg.Logger.Error("stripe payment intent failed",
				zap.Int64("amount", input.Amount),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
	}
}
