package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	models "github.com/Anuj-gif-web/helpunity-backend/models"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/session"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// ---------------- PROFILE SETUP ----------------
// SetupProfile completes onboarding. Organizations must supply a name
// and description; volunteers a name.
func SetupProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		var input struct {
			UserType       string `json:"userType" binding:"required,oneof=volunteer organization"`
			Name           string `json:"name"`
			LastName       string `json:"lastName"`
			Age            int    `json:"age"`
			Profession     string `json:"profession"`
			OrgDescription string `json:"orgDescription"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if input.UserType == "organization" && input.OrgDescription == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orgDescription is required for organizations"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		updates := []store.FieldUpdate{
			store.SetField("userType", input.UserType),
			store.SetField("name", input.Name),
			store.SetField("updatedAt", time.Now()),
		}
		if input.LastName != "" {
			updates = append(updates, store.SetField("lastName", input.LastName))
		}
		if input.Age > 0 {
			updates = append(updates, store.SetField("age", input.Age))
		}
		if input.Profession != "" {
			updates = append(updates, store.SetField("profession", input.Profession))
		}
		if input.OrgDescription != "" {
			updates = append(updates, store.SetField("orgDescription", input.OrgDescription))
		}

		if err := cfg.Store.Update(ctx, services.CollectionUsers, uid, updates...); err != nil {
			respondServiceError(c, err)
			return
		}

		state, _ := cfg.Gate.Evaluate(ctx, session.AuthChange{
			UserID:        uid,
			Email:         c.GetString("email"),
			SignedIn:      true,
			EmailVerified: c.GetBool("email_verified"),
		})

		c.JSON(http.StatusOK, gin.H{"state": state, "message": "profile saved"})
	}
}

// ---------------- GET ----------------
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Store.Get(ctx, services.CollectionUsers, c.Param("id"), &user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
			return
		}
		user.Normalize()

		c.JSON(http.StatusOK, gin.H{
			"user":           user,
			"followersCount": len(user.Followers),
			"followingCount": len(user.Following),
		})
	}
}

// ---------------- UPDATE ----------------
func UpdateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		if uid != c.Param("id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var input struct {
			Name           string `json:"name"`
			LastName       string `json:"lastName"`
			Age            int    `json:"age"`
			Profession     string `json:"profession"`
			OrgDescription string `json:"orgDescription"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := []store.FieldUpdate{store.SetField("updatedAt", time.Now())}
		if input.Name != "" {
			updates = append(updates, store.SetField("name", input.Name))
		}
		if input.LastName != "" {
			updates = append(updates, store.SetField("lastName", input.LastName))
		}
		if input.Age > 0 {
			updates = append(updates, store.SetField("age", input.Age))
		}
		if input.Profession != "" {
			updates = append(updates, store.SetField("profession", input.Profession))
		}
		if input.OrgDescription != "" {
			updates = append(updates, store.SetField("orgDescription", input.OrgDescription))
		}
		if len(updates) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Store.Update(ctx, services.CollectionUsers, uid, updates...); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

// ---------------- FOLLOW ----------------
func FollowUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := cfg.Social.Follow(ctx, uid, c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "followed"})
	}
}

// ---------------- UNFOLLOW ----------------
func UnfollowUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := cfg.Social.Unfollow(ctx, uid, c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
	}
}

// ---------------- FOLLOWERS / FOLLOWING ----------------
func ListFollowers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		followers, err := cfg.Social.ListFollowers(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"followers": followers})
	}
}

func ListFollowing(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		following, err := cfg.Social.ListFollowing(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"following": following})
	}
}

// ---------------- VOLUNTEER HISTORY ----------------
// VolunteerHistory returns the user's hour-log entries resolved with
// event titles, plus the total across all entries.
func VolunteerHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, total, err := cfg.Registrar.History(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		titles := map[string]string{}
		type historyItem struct {
			EventID   string `json:"eventId"`
			EventName string `json:"eventName"`
			Hours     int    `json:"hours"`
		}
		items := make([]historyItem, 0, len(entries))
		for _, entry := range entries {
			title, ok := titles[entry.EventID]
			if !ok {
				var event models.Event
				if err := cfg.Store.Get(ctx, services.CollectionEvents, entry.EventID, &event); err == nil {
					title = event.Title
				} else {
					title = "Unknown event"
				}
				titles[entry.EventID] = title
			}
			items = append(items, historyItem{
				EventID:   entry.EventID,
				EventName: title,
				Hours:     entry.Hours,
			})
		}

		c.JSON(http.StatusOK, gin.H{"history": items, "totalHours": total})
	}
}
