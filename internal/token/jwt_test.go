package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/codemap-billing/internal/model"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", "codemap")
	p := model.Principal{ExternalID: "user_2abc", Email: "a@x.com"}

	access, err := j.GenerateAccessToken(p, time.Minute)
	require.NoError(t, err)
	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestJWT_GenerateAccessToken_NoPrincipal(t *testing.T) {
	j := NewJWT("secret", "")
	_, err := j.GenerateAccessToken(model.Principal{}, time.Minute)
	assert.ErrorIs(t, err, model.ErrBadRequest)
}

func TestJWT_ParseAccessToken_Rejects(t *testing.T) {
	p := model.Principal{ExternalID: "user_1"}
	valid := func(t *testing.T, secret, issuer string, ttl time.Duration) string {
		tok, err := NewJWT(secret, issuer).GenerateAccessToken(p, ttl)
		require.NoError(t, err)
		return tok
	}
	noSubject := func(t *testing.T) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "codemap",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return tok
	}
	noExpiry := func(t *testing.T) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1", Issuer: "codemap"},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return tok
	}
	noneAlg := func(t *testing.T) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				Issuer:    "codemap",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "garbage", token: func(*testing.T) string { return "not-a-jwt" }},
		{name: "wrong secret", token: func(t *testing.T) string { return valid(t, "other", "codemap", time.Minute) }},
		{name: "wrong issuer", token: func(t *testing.T) string { return valid(t, "secret", "someone-else", time.Minute) }},
		{name: "expired", token: func(t *testing.T) string { return valid(t, "secret", "codemap", -time.Minute) }},
		{name: "missing subject", token: noSubject},
		{name: "missing expiry", token: noExpiry},
		{name: "none algorithm", token: noneAlg},
	}

	j := NewJWT("secret", "codemap")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.ParseAccessToken(tt.token(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrUnauthorized)
		})
	}
}

func TestJWT_EmptyIssuerSkipsCheck(t *testing.T) {
	tok, err := NewJWT("secret", "clerk").GenerateAccessToken(model.Principal{ExternalID: "u"}, time.Minute)
	require.NoError(t, err)

	got, err := NewJWT("secret", "").ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u", got.ExternalID)
}
