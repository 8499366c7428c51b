package model

import "time"

// TokenManager issues and validates principal access tokens.
type TokenManager interface {
	GenerateAccessToken(principal Principal, ttl time.Duration) (string, error)
	ParseAccessToken(token string) (Principal, error)
}
