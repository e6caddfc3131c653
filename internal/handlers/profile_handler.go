package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/velourstudio/studio-api/internal/config"
	"github.com/velourstudio/studio-api/internal/forms"
	"github.com/velourstudio/studio-api/internal/middleware"
	"github.com/velourstudio/studio-api/internal/store"
	"github.com/velourstudio/studio-api/internal/utils"
)

// UpdateName changes the signed-in user's display name.
func (h *Handler) UpdateName(c *gin.Context) {
	email := c.GetString("userEmail")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err := h.Users.Update(ctx, email, bson.M{"name": req.Name, "updatedAt": time.Now()})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateName: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully"})
}

// ChangePassword stores a new password hash. The length check runs before
// any database write.
func (h *Handler) ChangePassword(c *gin.Context) {
	email := c.GetString("userEmail")

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err = h.Users.Update(ctx, email, bson.M{"password": hashedPassword, "updatedAt": time.Now()})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("ChangePassword: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// UploadImage stores a new profile image and records its key on the user.
func (h *Handler) UploadImage(c *gin.Context) {
	email := c.GetString("userEmail")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("UploadImage: open failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("UploadImage: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := imageKey(email, fileHeader.Filename)
	if _, err := h.Storage.Save(ctx, key, file, contentType); err != nil {
		log.Printf("UploadImage: save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	if err := h.Users.Update(ctx, email, bson.M{"image": key, "updatedAt": time.Now()}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	// Old image is replaced, not kept around.
	if user.Image != "" && user.Image != key && !strings.HasPrefix(user.Image, "http") {
		if err := h.Storage.Delete(ctx, user.Image); err != nil {
			log.Printf("UploadImage: could not remove previous image %s: %v", user.Image, err)
		}
	}

	url, err := h.Storage.URL(ctx, key)
	if err != nil {
		url = key
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Image uploaded", "image": url})
}

// RemoveImage clears the profile image.
func (h *Handler) RemoveImage(c *gin.Context) {
	email := c.GetString("userEmail")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("RemoveImage: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove image"})
		return
	}

	if user.Image != "" && !strings.HasPrefix(user.Image, "http") {
		if err := h.Storage.Delete(ctx, user.Image); err != nil {
			log.Printf("RemoveImage: could not delete %s: %v", user.Image, err)
		}
	}

	if err := h.Users.Unset(ctx, email, "image"); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image removed"})
}

// DeleteAccount removes the user, their sessions, and best-effort any
// leftovers in the legacy database.
func (h *Handler) DeleteAccount(c *gin.Context) {
	email := c.GetString("userEmail")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	err := h.Users.Delete(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("DeleteAccount: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	if err := h.Users.DeleteSessions(ctx, email); err != nil {
		log.Printf("DeleteAccount: session cleanup failed for %s: %v", email, err)
	}
	if err := h.Users.CleanupLegacy(ctx, email); err != nil {
		log.Printf("DeleteAccount: legacy cleanup failed for %s: %v", email, err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}

// NotificationCount reports how many of the user's bookings still await
// payment. Unauthenticated requests get 401 with a zero count.
func (h *Handler) NotificationCount(c *gin.Context) {
	claims, err := middleware.SessionClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"count": 0})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Bookings.PendingCount(ctx, forms.Collections(), claims.Email)
	if err != nil {
		log.Printf("NotificationCount: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"count": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func imageKey(email, filename string) string {
	user := strings.NewReplacer("@", "_", "/", "_", "\\", "_", " ", "_").Replace(email)
	ext := strings.ToLower(filepath.Ext(filename))
	return user + "-" + uuid.NewString()[:8] + ext
}
