package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velourstudio/studio-api/internal/forms"
	"github.com/velourstudio/studio-api/internal/models"
)

// SubmitForm returns the handler for one consultation form. Every booking
// flow is the same pipeline: parse the multipart form per the definition,
// insert one document with status payment_pending, fire the notification
// email best-effort, answer 201 with the new id.
func (h *Handler) SubmitForm(def forms.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			log.Printf("%s: failed to parse form: %v", def.Slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit request"})
			return
		}

		doc, attachments, err := def.Parse(form)
		if err != nil {
			log.Printf("%s: failed to read submission: %v", def.Slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit request"})
			return
		}

		doc["status"] = models.StatusPaymentPending
		doc["createdAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		id, err := h.Bookings.InsertBooking(ctx, def.Collection, doc)
		if err != nil {
			log.Printf("%s: failed to insert booking: %v", def.Slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit request"})
			return
		}

		// Notification failure never fails the request.
		h.NotificationSvc.SendFormNotification(def.Label, doc, attachments)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Request submitted successfully",
			"id":      id,
		})
	}
}
