package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const verifyPurpose = "verify_email"

// GenerateAccessToken issues the bearer token returned on login.
func GenerateAccessToken(secret, userID, email string, emailVerified bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"email":    email,
		"verified": emailVerified,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateVerificationToken issues the short-lived token embedded in
// the verify-email link.
func GenerateVerificationToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"purpose": verifyPurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseVerificationToken validates a verify-email token and returns
// the user id it was issued for.
func ParseVerificationToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != verifyPurpose {
		return "", fmt.Errorf("not a verification token")
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return userID, nil
}
