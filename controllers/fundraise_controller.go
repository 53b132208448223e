package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	models "github.com/Anuj-gif-web/helpunity-backend/models"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
	utils "github.com/Anuj-gif-web/helpunity-backend/utils"
)

var fundraiseRecipients = map[string]bool{
	"Yourself":                true,
	"Someone Else":            true,
	"Charity or Organization": true,
}

// ---------------- CREATE ----------------
func CreateFundraisePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		// --- Bind form fields ---
		var input struct {
			Recipient   string   `form:"recipient" binding:"required"`
			Categories  []string `form:"categories" binding:"required"`
			Title       string   `form:"title" binding:"required"`
			Description string   `form:"description" binding:"required"`
			Goal        string   `form:"goal" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !fundraiseRecipients[input.Recipient] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient must be Yourself, Someone Else, or Charity or Organization"})
			return
		}
		if len(strings.Fields(input.Description)) < 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description must be at least 100 words"})
			return
		}
		goal, err := strconv.ParseFloat(input.Goal, 64)
		if err != nil || goal <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "goal must be a positive number"})
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
		coverURL, err := utils.UploadCoverPhoto(file, "fundraise")
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image upload failed",
				"details": err.Error(),
				"file":    fileHeader.Filename,
			})
			return
		}

		// --- Save post ---
		now := time.Now()
		post := models.FundraisePost{
			ID:            primitive.NewObjectID().Hex(),
			UserID:        uid,
			Recipient:     input.Recipient,
			Categories:    input.Categories,
			Title:         input.Title,
			Description:   input.Description,
			Goal:          goal,
			CurrentAmount: 0,
			CoverPhoto:    coverURL,
			ShareLink:     cfg.AppBaseURL + "/fundraise/" + uuid.NewString(),
			Likes:         0,
			LikedBy:       map[string]bool{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Store.Insert(ctx, services.CollectionFundraisePosts, post); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create fundraise post"})
			return
		}

		c.JSON(http.StatusCreated, post)
	}
}

// ---------------- LIST ----------------
func ListFundraisePosts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := store.Filter{Equals: map[string]interface{}{}}
		if category := c.Query("category"); category != "" {
			filter.Equals["categories"] = category
		}
		if userID := c.Query("user_id"); userID != "" {
			filter.Equals["userId"] = userID
		}
		if q := c.Query("q"); q != "" {
			filter.Regex = map[string]string{"title": q}
		}

		// --- Fetch data ---
		var posts []models.FundraisePost
		if err := cfg.Store.Find(ctx, services.CollectionFundraisePosts, filter, &posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch fundraise posts"})
			return
		}

		if len(posts) == 0 {
			c.JSON(http.StatusOK, []models.FundraisePost{})
			return
		}
		for i := range posts {
			posts[i].Normalize()
		}

		// --- Pick the most recently updated post ---
		latest := posts[0]
		for _, p := range posts {
			if p.UpdatedAt.After(latest.UpdatedAt) {
				latest = p
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, posts)
	}
}

// ---------------- GET ----------------
func GetFundraisePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var post models.FundraisePost
		if err := cfg.Store.Get(ctx, services.CollectionFundraisePosts, c.Param("id"), &post); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "fundraise post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch fundraise post"})
			return
		}
		post.Normalize()

		etag := utils.GenerateETag(post.ID, post.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, post)
	}
}

// ---------------- UPDATE ----------------
func UpdateFundraisePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		postID := c.Param("id")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.FundraisePost
		if err := cfg.Store.Get(ctx, services.CollectionFundraisePosts, postID, &existing); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "fundraise post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch fundraise post"})
			return
		}

		// --- Author only ---
		if existing.UserID != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var input struct {
			Title       string   `form:"title"`
			Description string   `form:"description"`
			Categories  []string `form:"categories"`
			Goal        string   `form:"goal"`
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
			if len(strings.Fields(input.Description)) < 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "description must be at least 100 words"})
				return
			}
			updates = append(updates, store.SetField("description", input.Description))
		}
		if len(input.Categories) > 0 {
			updates = append(updates, store.SetField("categories", input.Categories))
		}
		if input.Goal != "" {
			goal, err := strconv.ParseFloat(input.Goal, 64)
			if err != nil || goal <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "goal must be a positive number"})
				return
			}
			updates = append(updates, store.SetField("goal", goal))
		}

		// --- Optional new cover photo ---
		if fileHeader, err := c.FormFile("cover_photo"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
				return
			}
			coverURL, err := utils.UploadCoverPhoto(file, "fundraise")
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

		if err := cfg.Store.Update(ctx, services.CollectionFundraisePosts, postID, updates...); err != nil {
			respondServiceError(c, err)
			return
		}

		var updated models.FundraisePost
		if err := cfg.Store.Get(ctx, services.CollectionFundraisePosts, postID, &updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated post"})
			return
		}
		updated.Normalize()

		c.JSON(http.StatusOK, gin.H{
			"message": "fundraise post updated successfully",
			"post":    updated,
		})
	}
}

// ---------------- LIKE ----------------
func ToggleLikeFundraisePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		liked, likes, err := cfg.Engagement.ToggleLike(ctx, services.EntityFundraisePost, c.Param("id"), uid)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
	}
}
