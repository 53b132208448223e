package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	models "github.com/Anuj-gif-web/helpunity-backend/models"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/session"
	"github.com/Anuj-gif-web/helpunity-backend/store"
	utils "github.com/Anuj-gif-web/helpunity-backend/utils"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// --- Reject duplicate accounts ---
		var existing []models.User
		if err := cfg.Store.Query(ctx, services.CollectionUsers, "email", email, &existing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check account"})
			return
		}
		if len(existing) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:        primitive.NewObjectID().Hex(),
			Email:     email,
			Password:  string(hash),
			Followers: []string{},
			Following: []string{},
			History:   []models.HistoryEntry{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := cfg.Store.Insert(ctx, services.CollectionUsers, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		sendVerification(cfg, user)

		state, _ := cfg.Gate.Evaluate(ctx, session.AuthChange{
			UserID:   user.ID,
			Email:    user.Email,
			SignedIn: true,
		})

		c.JSON(http.StatusCreated, gin.H{
			"id":      user.ID,
			"state":   state,
			"message": "account created, check your email to verify it",
		})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var matches []models.User
		if err := cfg.Store.Query(ctx, services.CollectionUsers, "email", email, &matches); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up account"})
			return
		}
		if len(matches) == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		user := matches[0]

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, err := utils.GenerateAccessToken(cfg.JWTSecret, user.ID, user.Email, user.EmailVerified, cfg.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}

		state, err := cfg.Gate.Evaluate(ctx, session.AuthChange{
			UserID:        user.ID,
			Email:         user.Email,
			SignedIn:      true,
			EmailVerified: user.EmailVerified,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not evaluate session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"state": state,
			"user": gin.H{
				"id":            user.ID,
				"email":         user.Email,
				"emailVerified": user.EmailVerified,
			},
		})
	}
}

// ---------------- VERIFY EMAIL ----------------
func VerifyEmail(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			var input struct {
				Token string `json:"token" binding:"required"`
			}
			if err := c.ShouldBindJSON(&input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
				return
			}
			tokenString = input.Token
		}

		userID, err := utils.ParseVerificationToken(cfg.JWTSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification token"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Store.Get(ctx, services.CollectionUsers, userID, &user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		if !user.EmailVerified {
			err := cfg.Store.Update(ctx, services.CollectionUsers, userID,
				store.SetField("emailVerified", true),
				store.SetField("updatedAt", time.Now()))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify email"})
				return
			}
		}

		state, _ := cfg.Gate.Evaluate(ctx, session.AuthChange{
			UserID:        userID,
			Email:         user.Email,
			SignedIn:      true,
			EmailVerified: true,
		})

		c.JSON(http.StatusOK, gin.H{
			"state":   state,
			"message": "email verified, please log in again",
		})
	}
}

// ---------------- RESEND VERIFICATION ----------------
func ResendVerification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var matches []models.User
		if err := cfg.Store.Query(ctx, services.CollectionUsers, "email", email, &matches); err != nil || len(matches) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		user := matches[0]
		if user.EmailVerified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is already verified"})
			return
		}

		sendVerification(cfg, user)
		c.JSON(http.StatusOK, gin.H{"message": "verification email sent"})
	}
}

// ---------------- SESSION ----------------
// Session re-evaluates the gate against the current account document,
// so a verification that happened after login is picked up here.
func Session(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Store.Get(ctx, services.CollectionUsers, uid, &user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load account"})
			return
		}
		user.Normalize()

		state, err := cfg.Gate.Evaluate(ctx, session.AuthChange{
			UserID:        user.ID,
			Email:         user.Email,
			SignedIn:      true,
			EmailVerified: user.EmailVerified,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not evaluate session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"state": state, "user": user})
	}
}

// ---------------- LOGOUT ----------------
func Logout(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		cfg.Gate.SignOut(uid)
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}

func sendVerification(cfg *config.Config, user models.User) {
	token, err := utils.GenerateVerificationToken(cfg.JWTSecret, user.ID, cfg.VerifyTokenTTL)
	if err != nil {
		cfg.Logger.Error("could not create verification token", zap.Error(err))
		return
	}
	verifyURL := cfg.AppBaseURL + "/auth/verify-email?token=" + token
	if err := utils.SendVerificationEmail(user.Email, verifyURL); err != nil {
		cfg.Logger.Warn("verification email failed",
			zap.String("user", user.ID), zap.Error(err))
	}
}
