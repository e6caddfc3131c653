package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeGemini stands in for the AI endpoint and records each request body.
func fakeGemini(t *testing.T, reply string) *[]GeminiRequestBody {
	t.Helper()

	var requests []GeminiRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body GeminiRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upstream request: %v", err)
		}
		requests = append(requests, body)

		resp := GeminiResponseBody{}
		resp.Candidates = []GeminiResponseCandidate{{}}
		resp.Candidates[0].Content.Role = "model"
		resp.Candidates[0].Content.Parts = []GeminiResponsePart{{Text: reply}}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	old := geminiURL
	geminiURL = server.URL
	t.Cleanup(func() { geminiURL = old })

	return &requests
}

func TestHandleChatRepliesAndKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.mem, "asha@example.com", "")
	requests := fakeGemini(t, "We offer wedding styling consultations.")

	first := withSession(t, jsonRequest(http.MethodPost, "/api/chat", map[string]string{
		"message": "Do you do wedding styling?",
	}), user)
	w := env.do(first)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.Message != "We offer wedding styling consultations." {
		t.Errorf("response = %+v", resp)
	}

	second := withSession(t, jsonRequest(http.MethodPost, "/api/chat", map[string]string{
		"message": "And photoshoot styling?",
	}), user)
	if w := env.do(second); w.Code != http.StatusOK {
		t.Fatalf("second status = %d, want 200", w.Code)
	}

	if len(*requests) != 2 {
		t.Fatalf("upstream calls = %d, want 2", len(*requests))
	}
	// The second upstream request carries the first exchange as history.
	var sawQuestion, sawReply bool
	for _, content := range (*requests)[1].Contents {
		for _, part := range content.Parts {
			if strings.Contains(part.Text, "Do you do wedding styling?") {
				sawQuestion = true
			}
			if strings.Contains(part.Text, "We offer wedding styling consultations.") {
				sawReply = true
			}
		}
	}
	if !sawQuestion || !sawReply {
		t.Errorf("history missing from follow-up request: question=%v reply=%v", sawQuestion, sawReply)
	}
}

func TestHandleChatAnonymousGetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	fakeGemini(t, "Hello!")

	w := env.do(jsonRequest(http.MethodPost, "/api/chat", map[string]string{"message": "hi"}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	found := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == chatSessionCookie && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("anonymous chat did not set a session cookie")
	}
}

func TestHandleChatEmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/chat", map[string]string{"message": ""}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleChatUpstreamError(t *testing.T) {
	env := newTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	old := geminiURL
	geminiURL = server.URL
	t.Cleanup(func() { geminiURL = old })

	w := env.do(jsonRequest(http.MethodPost, "/api/chat", map[string]string{"message": "hi"}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
