package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/velourstudio/studio-api/internal/config"
	"github.com/velourstudio/studio-api/internal/middleware"
	"github.com/velourstudio/studio-api/internal/models"
	"github.com/velourstudio/studio-api/internal/providers"
	"github.com/velourstudio/studio-api/internal/store"
	"github.com/velourstudio/studio-api/internal/utils"
)

const (
	stateCookie    = "auth_state"
	callbackCookie = "auth_callback"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Mobile   string `json:"mobile"`
}

// RegisterUser creates a credentials account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("RegisterUser: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      hashedPassword,
		Mobile:        req.Mobile,
		Provider:      "credentials",
		Notifications: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Insert(ctx, &user); err != nil {
		log.Printf("RegisterUser: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login signs in through the credentials provider.
func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	provider, ok := h.Providers.Get("credentials")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in is not available"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	identity, err := provider.Verify(ctx, providers.Credentials{Email: loginReq.Email, Password: loginReq.Password})
	if errors.Is(err, providers.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Printf("Login: verification failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}

	user, err := h.reconcileSignIn(ctx, identity)
	if err != nil {
		log.Printf("Login: reconcile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	h.setSessionCookie(c, token)
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// ProviderLogin redirects the browser to an identity provider's consent
// screen.
func (h *Handler) ProviderLogin(c *gin.Context) {
	provider, ok := h.Providers.Get(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown provider"})
		return
	}

	state := uuid.NewString()
	loginURL := provider.LoginURL(state)
	if loginURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider has no redirect flow"})
		return
	}

	secure := config.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", secure, true)
	if callbackURL := c.Query("callbackUrl"); callbackURL != "" {
		c.SetCookie(callbackCookie, callbackURL, 600, "/", "", secure, true)
	}

	c.Redirect(http.StatusTemporaryRedirect, loginURL)
}

// ProviderCallback completes the OAuth round-trip: state check, code
// exchange, user upsert, session cookie, guarded redirect.
func (h *Handler) ProviderCallback(c *gin.Context) {
	provider, ok := h.Providers.Get(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown provider"})
		return
	}

	state, _ := c.Cookie(stateCookie)
	if state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "State invalid"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	identity, err := provider.Verify(ctx, providers.Credentials{Code: code})
	if errors.Is(err, providers.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign-in was not accepted"})
		return
	}
	if err != nil {
		log.Printf("ProviderCallback(%s): verification failed: %v", provider.Name(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}
	if identity.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Provider did not share an email"})
		return
	}

	user, err := h.reconcileSignIn(ctx, identity)
	if err != nil {
		log.Printf("ProviderCallback(%s): reconcile failed: %v", provider.Name(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	h.setSessionCookie(c, token)

	target, _ := c.Cookie(callbackCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", config.IsProduction(), true)
	c.SetCookie(callbackCookie, "", -1, "/", "", config.IsProduction(), true)
	c.Redirect(http.StatusFound, SafeRedirectTarget(target, config.BaseURL))
}

// Session reports the active session. The user record is re-read by email
// on every check so the response always reflects current data.
func (h *Handler) Session(c *gin.Context) {
	claims, err := middleware.SessionClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}
	if err != nil {
		log.Printf("Session: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID.Hex(),
			"name":     user.Name,
			"email":    user.Email,
			"image":    user.Image,
			"provider": user.Provider,
		},
		"emailVerified": user.EmailVerified,
		"createdAt":     user.CreatedAt,
		"expires":       claims.ExpiresAt,
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out"})
}

// reconcileSignIn upserts the user record for a verified identity: create
// when absent, otherwise merge name/image/provider and stamp the login.
func (h *Handler) reconcileSignIn(ctx context.Context, identity *providers.Identity) (*models.User, error) {
	now := time.Now()

	user, err := h.Users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, store.ErrNotFound) {
		user = &models.User{
			Name:          identity.Name,
			Email:         identity.Email,
			Image:         identity.Image,
			Provider:      identity.Provider,
			Notifications: true,
			CreatedAt:     now,
			UpdatedAt:     now,
			LastLogin:     &now,
		}
		if identity.Provider != "" {
			user.Connected = map[string]bool{identity.Provider: true}
			// Reaching here means the provider vouched for the address.
			user.EmailVerified = &now
		}
		if err := h.Users.Insert(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now, "lastLogin": now}
	if identity.Name != "" {
		set["name"] = identity.Name
		user.Name = identity.Name
	}
	if identity.Image != "" {
		set["image"] = identity.Image
		user.Image = identity.Image
	}
	// An assertion without a provider keeps whatever the record already has.
	if identity.Provider != "" {
		set["provider"] = identity.Provider
		set["connectedAccounts."+identity.Provider] = true
		user.Provider = identity.Provider
	}
	user.LastLogin = &now
	user.UpdatedAt = now

	if err := h.Users.Update(ctx, identity.Email, set); err != nil {
		return nil, err
	}
	return user, nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(utils.SessionDuration.Seconds()), "/", "", config.IsProduction(), true)
}

// SafeRedirectTarget constrains a post-auth redirect to relative paths or
// the site's own origin, falling back to "/".
func SafeRedirectTarget(target, baseURL string) string {
	if target == "" {
		return "/"
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "/"
	}
	if parsed.Scheme == base.Scheme && parsed.Host == base.Host {
		return target
	}
	return "/"
}
