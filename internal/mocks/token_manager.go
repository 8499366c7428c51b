package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/model"
)

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

func (_m *TokenManager) GenerateAccessToken(principal model.Principal, ttl time.Duration) (string, error) {
	ret := _m.Called(principal, ttl)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) ParseAccessToken(token string) (model.Principal, error) {
	ret := _m.Called(token)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

// NewTokenManager creates a new instance of TokenManager. It also registers a
// cleanup function to assert the mocks expectations.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
