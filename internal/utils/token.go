package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived access token.
func GenerateAccessToken(userID, role, secret string, ttlMinutes int) (string, time.Time, error) {
	return signToken(userID, role, secret, time.Duration(ttlMinutes)*time.Minute)
}

// GenerateRefreshToken signs the longer-lived refresh token.
func GenerateRefreshToken(userID, role, secret string, ttlDays int) (string, time.Time, error) {
	return signToken(userID, role, secret, time.Duration(ttlDays)*24*time.Hour)
}

func signToken(userID, role, secret string, ttl time.Duration) (string, time.Time, error) {
	expirationTime := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ParseJWT parses and validates a token signed by this service.
func ParseJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
