package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/velourstudio/studio-api/internal/models"
)

// NotificationService posts booking notifications to the internal
// send-email endpoint. Delivery is best-effort: a failed send is logged and
// never surfaced to the submitting client.
type NotificationService struct {
	Endpoint string
	Client   *http.Client
}

func NewNotificationService(endpoint string) *NotificationService {
	return &NotificationService{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type emailAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Content     string `json:"content"` // base64
}

// SendFormNotification fires the notification in a goroutine so it never
// blocks the API response.
func (s *NotificationService) SendFormNotification(formType string, doc bson.M, attachments []models.Attachment) {
	data := make(map[string]interface{}, len(doc))
	for key, value := range doc {
		if key == "attachments" {
			continue
		}
		data[key] = value
	}
	if len(attachments) > 0 {
		encoded := make([]emailAttachment, 0, len(attachments))
		for _, a := range attachments {
			encoded = append(encoded, emailAttachment{
				Name:        a.Name,
				ContentType: a.ContentType,
				Size:        a.Size,
				Content:     base64.StdEncoding.EncodeToString(a.Data),
			})
		}
		data["attachments"] = encoded
	}

	go s.post(formType, data)
}

func (s *NotificationService) post(formType string, data map[string]interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"formType": formType,
		"purpose":  "booking_request",
		"data":     data,
	})
	if err != nil {
		log.Printf("Notification for %s not sent: %v", formType, err)
		return
	}

	resp, err := s.Client.Post(s.Endpoint, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("Failed to send notification request for %s: %v", formType, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["message"].(string)
		log.Printf("Failed to send notification email for %s. Reason: %s", formType, errorMsg)
	} else {
		log.Printf("Successfully sent notification email for %s", formType)
	}
}
