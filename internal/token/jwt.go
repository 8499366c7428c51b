package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/codemap-billing/internal/model"
)

// Claims are the identity provider session claims. Subject carries the external user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	issuer    string
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager. An empty issuer disables the issuer check.
func NewJWT(secretKey, issuer string) *JWT {
	return &JWT{secretKey: secretKey, issuer: issuer}
}

// GenerateAccessToken signs a token for the principal valid for ttl.
func (j *JWT) GenerateAccessToken(principal model.Principal, ttl time.Duration) (string, error) {
	if principal.IsZero() {
		return "", fmt.Errorf("principal has no external id: %w", model.ErrBadRequest)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ExternalID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: principal.Email,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates the token and returns its principal.
// Every failure wraps model.ErrUnauthorized.
func (j *JWT) ParseAccessToken(tokenString string) (model.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	}, opts...)
	if err != nil {
		return model.Principal{}, fmt.Errorf("failed to parse access token: %w", errors.Join(model.ErrUnauthorized, err))
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("access token is invalid: %w", model.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return model.Principal{}, fmt.Errorf("access token has no subject: %w", model.ErrUnauthorized)
	}

	return model.Principal{ExternalID: claims.Subject, Email: claims.Email}, nil
}
