package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/velourstudio/studio-api/internal/middleware"
	"github.com/velourstudio/studio-api/internal/providers"
	"github.com/velourstudio/studio-api/internal/utils"
)

func jsonRequest(method, url string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func hashFast(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"name": "Asha Rao", "email": "asha@example.com", "password": "short",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if _, ok := env.mem.Users["asha@example.com"]; ok {
		t.Error("user was created despite invalid password")
	}
}

func TestRegisterConflictOnDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.mem, "asha@example.com", "")

	w := env.do(jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"name": "Asha Rao", "email": "asha@example.com", "password": "secret123",
	}))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.mem, "asha@example.com", hashFast(t, "secret123"))

	w := env.do(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "asha@example.com", "password": "secret123",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var sessionValue string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			sessionValue = cookie.Value
			if !cookie.HttpOnly {
				t.Error("session cookie is not HTTP-only")
			}
			if cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("session cookie SameSite = %v, want Lax", cookie.SameSite)
			}
		}
	}
	if sessionValue == "" {
		t.Fatal("no session cookie set")
	}

	claims, err := utils.ValidateJWT(sessionValue)
	if err != nil {
		t.Fatalf("cookie token invalid: %v", err)
	}
	if claims.Email != "asha@example.com" || claims.Provider != "credentials" {
		t.Errorf("claims = %+v", claims)
	}

	// Login stamps lastLogin on the record.
	if env.mem.Users["asha@example.com"].LastLogin == nil {
		t.Error("lastLogin not set after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.mem, "asha@example.com", hashFast(t, "secret123"))

	w := env.do(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "asha@example.com", "password": "wrong",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "whatever",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestReconcileSignInCreatesThenMerges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// First provider sign-in creates the record.
	user, err := env.h.reconcileSignIn(ctx, &providers.Identity{
		Email:    "new@example.com",
		Name:     "New User",
		Image:    "https://lh3.example.com/p.jpg",
		Provider: "google",
	})
	if err != nil {
		t.Fatalf("reconcile create: %v", err)
	}
	if user.Provider != "google" {
		t.Errorf("provider = %s, want google", user.Provider)
	}
	if user.EmailVerified == nil {
		t.Error("emailVerified not set on provider sign-in")
	}
	if !user.Connected["google"] {
		t.Error("connected-account flag not recorded")
	}

	// Second sign-in with a different display name and no provider on the
	// assertion: name is overwritten, provider preserved.
	merged, err := env.h.reconcileSignIn(ctx, &providers.Identity{
		Email: "new@example.com",
		Name:  "Renamed User",
	})
	if err != nil {
		t.Fatalf("reconcile merge: %v", err)
	}
	if merged.Name != "Renamed User" {
		t.Errorf("name = %s, want Renamed User", merged.Name)
	}
	if merged.Provider != "google" {
		t.Errorf("provider = %s, want preserved google", merged.Provider)
	}

	stored := env.mem.Users["new@example.com"]
	if stored.Name != "Renamed User" || stored.Provider != "google" {
		t.Errorf("stored record = %+v", stored)
	}
}

func TestSessionReadsUserByEmail(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.mem, "asha@example.com", "")

	req := withSession(t, httptest.NewRequest(http.MethodGet, "/auth/session", nil), user)
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.User.Email != "asha@example.com" || resp.User.ID != user.ID.Hex() {
		t.Errorf("session user = %+v", resp.User)
	}
}

func TestSessionWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSessionForDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.mem, "asha@example.com", "")
	env.mem.Delete(context.Background(), user.Email)

	req := withSession(t, httptest.NewRequest(http.MethodGet, "/auth/session", nil), user)
	w := env.do(req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 once the record is gone", w.Code)
	}
}

func TestSafeRedirectTarget(t *testing.T) {
	base := "https://velourstudio.in"
	cases := []struct {
		target string
		want   string
	}{
		{"", "/"},
		{"/profile", "/profile"},
		{"/bookings?tab=pending", "/bookings?tab=pending"},
		{"//evil.example.com", "/"},
		{"https://velourstudio.in/account", "https://velourstudio.in/account"},
		{"https://evil.example.com/phish", "/"},
		{"http://velourstudio.in/account", "/"}, // scheme mismatch
		{"javascript:alert(1)", "/"},
	}
	for _, tc := range cases {
		if got := SafeRedirectTarget(tc.target, base); got != tc.want {
			t.Errorf("SafeRedirectTarget(%q) = %q, want %q", tc.target, got, tc.want)
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.MaxAge < 0 && cookie.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
	if strings.Contains(w.Body.String(), "error") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

// fakeGoogle points the test env's google provider at httptest stand-ins
// for the token and userinfo endpoints.
func fakeGoogle(t *testing.T, env *testEnv, userinfo map[string]interface{}) {
	t.Helper()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "token_type": "Bearer"})
	}))
	t.Cleanup(token.Close)

	info := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(userinfo)
	}))
	t.Cleanup(info.Close)

	env.google.Config.Endpoint = oauth2.Endpoint{AuthURL: token.URL + "/auth", TokenURL: token.URL + "/token"}
	env.google.UserInfoURL = info.URL
}

func TestProviderLoginRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/signin/google?callbackUrl=/dashboard", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}

	location := w.Header().Get("Location")
	if !strings.Contains(location, "client_id=client-id") || !strings.Contains(location, "state=") {
		t.Errorf("Location = %q, want consent URL with client id and state", location)
	}

	var state, callback string
	for _, cookie := range w.Result().Cookies() {
		switch cookie.Name {
		case stateCookie:
			state = cookie.Value
		case callbackCookie:
			callback = cookie.Value
		}
	}
	if state == "" || !strings.Contains(location, "state="+state) {
		t.Errorf("state cookie %q not reflected in redirect %q", state, location)
	}
	if callback != "/dashboard" {
		t.Errorf("callback cookie = %q, want /dashboard", callback)
	}
}

func TestProviderLoginUnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/signin/myspace", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProviderCallbackSignsIn(t *testing.T) {
	env := newTestEnv(t)
	fakeGoogle(t, env, map[string]interface{}{
		"email":   "new@example.com",
		"name":    "New User",
		"picture": "https://lh3.example.com/p.jpg",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?state=state-xyz&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "state-xyz"})
	req.AddCookie(&http.Cookie{Name: callbackCookie, Value: "/dashboard"})
	w := env.do(req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302, body %s", w.Code, w.Body.String())
	}
	if location := w.Header().Get("Location"); location != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", location)
	}

	var sessionValue string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			sessionValue = cookie.Value
		}
	}
	if sessionValue == "" {
		t.Fatal("no session cookie set")
	}
	claims, err := utils.ValidateJWT(sessionValue)
	if err != nil {
		t.Fatalf("cookie token invalid: %v", err)
	}
	if claims.Email != "new@example.com" || claims.Provider != "google" {
		t.Errorf("claims = %+v", claims)
	}

	stored := env.mem.Users["new@example.com"]
	if stored == nil {
		t.Fatal("user was not created")
	}
	if stored.EmailVerified == nil {
		t.Error("emailVerified not set on new provider sign-in")
	}
	if !stored.Connected["google"] {
		t.Error("connected-account flag not recorded")
	}
}

func TestProviderCallbackOffSiteRedirectFallsBack(t *testing.T) {
	env := newTestEnv(t)
	fakeGoogle(t, env, map[string]interface{}{"email": "new@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?state=state-xyz&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "state-xyz"})
	req.AddCookie(&http.Cookie{Name: callbackCookie, Value: "https://evil.example.com/phish"})
	w := env.do(req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/" {
		t.Errorf("Location = %q, want /", location)
	}
}

func TestProviderCallbackStateMismatch(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?state=attacker&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "state-xyz"})
	w := env.do(req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if _, ok := env.mem.Users["new@example.com"]; ok {
		t.Error("user created despite state mismatch")
	}
}

func TestProviderCallbackMissingEmail(t *testing.T) {
	env := newTestEnv(t)
	fakeGoogle(t, env, map[string]interface{}{"name": "No Email"})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?state=state-xyz&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "state-xyz"})
	w := env.do(req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body %s", w.Code, w.Body.String())
	}
}
