package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velourstudio/studio-api/internal/services"
)

// SendEmail is the internal endpoint every form handler notifies. It
// accepts an arbitrary data payload and answers {success, message}.
func (h *Handler) SendEmail(c *gin.Context) {
	var req struct {
		FormType string                 `json:"formType"`
		Purpose  string                 `json:"purpose"`
		Data     map[string]interface{} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	var attachments []services.MailAttachment
	if raw, ok := req.Data["attachments"]; ok {
		// Round-trip through JSON: the field arrives as []interface{}.
		if encoded, err := json.Marshal(raw); err == nil {
			json.Unmarshal(encoded, &attachments)
		}
		delete(req.Data, "attachments")
	}

	if err := h.Mailer.Send(req.FormType, req.Purpose, req.Data, attachments); err != nil {
		log.Printf("SendEmail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent"})
}
