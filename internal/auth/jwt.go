// Package auth validates the HS256 access tokens issued by the user
// service, giving the admin endpoints the same trust anchor as the rest
// of the platform.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/middleware"
)

// accessClaims mirrors the claims layout of platform access tokens.
type accessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validator verifies access tokens against the shared signing secret.
type Validator struct {
	secret []byte
}

// NewValidator creates a validator for the given HMAC secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Validate parses and verifies a token, returning the claims the HTTP
// middleware needs. It satisfies middleware.TokenValidator.
func (v *Validator) Validate(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}

	return &middleware.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
