package services

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers through SendGrid. It backs the internal send-email
// endpoint that every form handler notifies.
type Mailer struct {
	APIKey      string
	FromName    string
	FromAddress string
	Inbox       string
}

func NewMailer(apiKey, fromName, fromAddress, inbox string) *Mailer {
	return &Mailer{APIKey: apiKey, FromName: fromName, FromAddress: fromAddress, Inbox: inbox}
}

// MailAttachment is an already base64-encoded file from a form payload.
type MailAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Send composes and sends one notification mail to the studio inbox.
func (m *Mailer) Send(formType, purpose string, data map[string]interface{}, attachments []MailAttachment) error {
	if m.APIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	subject := fmt.Sprintf("[%s] New %s", purpose, formType)
	body := renderBody(formType, data)

	from := mail.NewEmail(m.FromName, m.FromAddress)
	to := mail.NewEmail(m.FromName, m.Inbox)
	message := mail.NewSingleEmail(from, subject, to, body, "<pre>"+body+"</pre>")

	for _, a := range attachments {
		attachment := mail.NewAttachment()
		attachment.SetFilename(a.Name)
		attachment.SetType(a.ContentType)
		attachment.SetContent(a.Content)
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending %s email: %v", formType, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Email sent for %s. Status Code: %d", formType, response.StatusCode)
	return nil
}

func renderBody(formType string, data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "New %s submission:\n\n", formType)
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %v\n", key, data[key])
	}
	return b.String()
}
