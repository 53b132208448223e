package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	models "github.com/Anuj-gif-web/helpunity-backend/models"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
	utils "github.com/Anuj-gif-web/helpunity-backend/utils"
)

// parseFlexibleTime accepts RFC3339 plus the date-only and
// date-time layouts mobile clients tend to send.
func parseFlexibleTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return parsed, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05", "15:04"}
	for _, layout := range layouts {
		if t, e := time.Parse(layout, value); e == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Authenticated user ---
		uid := c.GetString("user_id")

		// --- Bind form fields ---
		var input struct {
			Title       string `form:"title" binding:"required"`
			Description string `form:"description" binding:"required"`
			Date        string `form:"date" binding:"required"`
			Time        string `form:"time" binding:"required"`
			Location    string `form:"location" binding:"required"`
			Category    string `form:"category" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date, err := parseFlexibleTime(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
			return
		}
		startTime, err := parseFlexibleTime(input.Time)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format, use RFC3339 or HH:MM"})
			return
		}

		// --- Cover photo upload (must succeed before anything is written) ---
		fileHeader, err := c.FormFile("cover_photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cover_photo is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		coverURL, err := utils.UploadCoverPhoto(file, "events")
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image upload failed",
				"details": err.Error(),
				"file":    fileHeader.Filename,
			})
			return
		}

		// --- Save event ---
		now := time.Now()
		event := models.Event{
			ID:           primitive.NewObjectID().Hex(),
			Title:        input.Title,
			Description:  input.Description,
			Date:         date,
			Time:         startTime,
			Location:     input.Location,
			Category:     input.Category,
			CoverPhoto:   coverURL,
			Organizer:    uid,
			Participants: map[string]bool{},
			Likes:        0,
			LikedBy:      map[string]bool{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Store.Insert(ctx, services.CollectionEvents, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := store.Filter{}
		if category := c.Query("category"); category != "" {
			filter.Equals = map[string]interface{}{"category": category}
		}
		if q := c.Query("q"); q != "" {
			filter.Regex = map[string]string{"title": q}
		}

		// --- Fetch data ---
		var events []models.Event
		if err := cfg.Store.Find(ctx, services.CollectionEvents, filter, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		if len(events) == 0 {
			c.JSON(http.StatusOK, []models.Event{})
			return
		}
		for i := range events {
			events[i].Normalize()
		}

		// --- Pick the most recently updated event ---
		latest := events[0]
		for _, ev := range events {
			if ev.UpdatedAt.After(latest.UpdatedAt) {
				latest = ev
			}
		}

		// --- Generate ETag from latest event ---
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := cfg.Store.Get(ctx, services.CollectionEvents, c.Param("id"), &event); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}
		event.Normalize()

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		eventID := c.Param("id")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// --- Fetch existing event ---
		var existing models.Event
		if err := cfg.Store.Get(ctx, services.CollectionEvents, eventID, &existing); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}

		// --- Organizer only ---
		if existing.Organizer != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var input struct {
			Title       string `form:"title"`
			Description string `form:"description"`
			Date        string `form:"date"`
			Time        string `form:"time"`
			Location    string `form:"location"`
			Category    string `form:"category"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := []store.FieldUpdate{store.SetField("updatedAt", time.Now())}
		if input.Title != "" {
			updates = append(updates, store.SetField("title", input.Title))
		}
		if input.Description != "" {
			updates = append(updates, store.SetField("description", input.Description))
		}
		if input.Location != "" {
			updates = append(updates, store.SetField("location", input.Location))
		}
		if input.Category != "" {
			updates = append(updates, store.SetField("category", input.Category))
		}
		if input.Date != "" {
			date, err := parseFlexibleTime(input.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			updates = append(updates, store.SetField("date", date))
		}
		if input.Time != "" {
			startTime, err := parseFlexibleTime(input.Time)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format, use RFC3339 or HH:MM"})
				return
			}
			updates = append(updates, store.SetField("time", startTime))
		}

		// --- Optional new cover photo ---
		if fileHeader, err := c.FormFile("cover_photo"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
				return
			}
			coverURL, err := utils.UploadCoverPhoto(file, "events")
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			if existing.CoverPhoto != "" {
				utils.DeleteFromCloudinary(existing.CoverPhoto)
			}
			updates = append(updates, store.SetField("coverPhoto", coverURL))
		}

		if len(updates) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if err := cfg.Store.Update(ctx, services.CollectionEvents, eventID, updates...); err != nil {
			respondServiceError(c, err)
			return
		}

		var updated models.Event
		if err := cfg.Store.Get(ctx, services.CollectionEvents, eventID, &updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated event"})
			return
		}
		updated.Normalize()

		c.JSON(http.StatusOK, gin.H{
			"message": "event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- LIKE ----------------
func ToggleLikeEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		liked, likes, err := cfg.Engagement.ToggleLike(ctx, services.EntityEvent, c.Param("id"), uid)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
	}
}

// ---------------- SIGNUP ----------------
func SignUpForEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := cfg.Registrar.SignUp(ctx, c.Param("id"), uid); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "signed up for event"})
	}
}

// ---------------- PARTICIPANTS ----------------
// ListParticipants is the organizer's manage-signups view.
func ListParticipants(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var event models.Event
		if err := cfg.Store.Get(ctx, services.CollectionEvents, c.Param("id"), &event); err != nil {
			respondServiceError(c, err)
			return
		}
		event.Normalize()
		if event.Organizer != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ids := event.ParticipantIDs()
		participants := make([]models.ProfileSummary, 0, len(ids))
		if len(ids) > 0 {
			var users []models.User
			if err := cfg.Store.QueryIn(ctx, services.CollectionUsers, "_id", ids, &users); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch participants"})
				return
			}
			for i := range users {
				participants = append(participants, users[i].Summary())
			}
		}

		c.JSON(http.StatusOK, gin.H{"participants": participants})
	}
}

// ---------------- LOG HOURS ----------------
func LogEventHours(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		var input struct {
			UserID string `json:"userId" binding:"required"`
			Hours  int    `json:"hours" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := cfg.Registrar.LogHours(ctx, c.Param("id"), uid, input.UserID, input.Hours); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "hours logged"})
	}
}
