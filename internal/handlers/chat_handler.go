package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velourstudio/studio-api/internal/chat"
	"github.com/velourstudio/studio-api/internal/config"
	"github.com/velourstudio/studio-api/internal/middleware"
)

const chatSessionCookie = "chat_session"

// geminiURL is a package variable so tests can point it at a fake server.
var geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

type GeminiRequestPart struct {
	Text string `json:"text"`
}

type GeminiRequestContent struct {
	Role  string              `json:"role"`
	Parts []GeminiRequestPart `json:"parts"`
}

type GeminiRequestBody struct {
	Contents []GeminiRequestContent `json:"contents"`
}

type GeminiResponsePart struct {
	Text string `json:"text"`
}

type GeminiResponseCandidate struct {
	Content struct {
		Parts []GeminiResponsePart `json:"parts"`
		Role  string               `json:"role"`
	} `json:"content"`
}

type GeminiResponseBody struct {
	Candidates []GeminiResponseCandidate `json:"candidates"`
}

const chatSystemPrompt = `You are a helpful and friendly assistant for the 'Velour Studio' styling studio. You must follow these rules:
1. Your knowledge base is strictly limited to the following services:
   - Personalized Styling, Wedding Styling, Photoshoot Styling, Corporate Styling, Makeup Training, Soft Skills Coaching.
2. Answer questions politely based ONLY on this information.
3. If asked about anything else, you MUST respond with: "I can only help with our styling services. For any other questions, please reach out through the contact form."
4. Do not make up services or prices; pricing is shared after a consultation request.
5. If the user asks how to book, point them to the consultation forms on the website.`

// HandleChat is the demo concierge endpoint. Conversation history lives in
// the injected chat store, keyed by session, and expires on its own.
func (h *Handler) HandleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format, expecting {\"message\": \"...\"}"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	sessionID := h.chatSessionID(c)
	history := h.ChatStore.History(sessionID)

	contents := []GeminiRequestContent{
		{Role: "user", Parts: []GeminiRequestPart{{Text: chatSystemPrompt}}},
		{Role: "model", Parts: []GeminiRequestPart{{Text: "Understood. I will strictly follow these rules and only answer questions about the studio's services."}}},
	}
	for _, msg := range history {
		contents = append(contents, GeminiRequestContent{Role: msg.Role, Parts: []GeminiRequestPart{{Text: msg.Text}}})
	}
	contents = append(contents, GeminiRequestContent{Role: "user", Parts: []GeminiRequestPart{{Text: req.Message}}})

	jsonBody, err := json.Marshal(GeminiRequestBody{Contents: contents})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request body"})
		return
	}

	url := geminiURL + "?key=" + config.GeminiAPIKey
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create HTTP request"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send request to AI service"})
		return
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read AI response"})
		return
	}

	if httpResp.StatusCode != http.StatusOK {
		log.Printf("HandleChat: AI service error: %s", string(respBody))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service returned an error"})
		return
	}

	var geminiResp GeminiResponseBody
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse AI response"})
		return
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		reply := geminiResp.Candidates[0].Content.Parts[0].Text
		h.ChatStore.Append(sessionID, chat.Message{Role: "user", Text: req.Message})
		h.ChatStore.Append(sessionID, chat.Message{Role: "model", Text: reply})
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": reply,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "AI returned an empty or invalid response"})
}

// chatSessionID keys history on the signed-in user when there is one, else
// on an anonymous cookie.
func (h *Handler) chatSessionID(c *gin.Context) string {
	if claims, err := middleware.SessionClaims(c); err == nil {
		return "user:" + claims.Email
	}
	if id, err := c.Cookie(chatSessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(chatSessionCookie, id, 3600, "/", "", config.IsProduction(), true)
	return id
}
