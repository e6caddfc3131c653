package utils

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velourstudio/studio-api/internal/config"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 24 * time.Hour

type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a new session token for a signed-in user.
func GenerateJWT(userID, email, provider string) (string, error) {
	secret := []byte(config.JWTSecret)
	if len(secret) == 0 {
		log.Println("CRITICAL: JWT_SECRET is not configured. Cannot generate token.")
		return "", errors.New("JWT_SECRET is not configured")
	}
	expirationTime := time.Now().Add(SessionDuration)
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateJWT validates a given token string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	secret := []byte(config.JWTSecret)
	if len(secret) == 0 {
		log.Println("CRITICAL: JWT_SECRET is not configured. Cannot validate token.")
		return nil, errors.New("JWT_SECRET is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
