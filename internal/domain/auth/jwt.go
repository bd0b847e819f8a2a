// Package auth validates bearer tokens issued by the identity provider.
// Token issuance and user management live outside this service; the API
// only verifies the signature and trusts the actor claims.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	appctx "stockbook/internal/core/context"
)

// JWTConfig holds token validation configuration.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Claims represents the JWT claims this service reads.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"name,omitempty"`
}

// JWTService validates HS256 bearer tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT validation service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// ValidateToken verifies the token and returns the actor context.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if s.config.Issuer != "" && claims.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, fmt.Errorf("unexpected issuer")
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, fmt.Errorf("token carries no actor id")
	}

	return &appctx.UserContext{
		UserID:   userID,
		Username: claims.Username,
	}, nil
}
