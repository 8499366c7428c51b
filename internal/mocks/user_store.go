package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/model"
)

// UserStore is a mock type for the model.UserStore type.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) FindByExternalID(ctx context.Context, externalID string) (model.User, error) {
	ret := _m.Called(ctx, externalID)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) UpsertByExternalID(ctx context.Context, externalID string, email string) (model.User, error) {
	ret := _m.Called(ctx, externalID, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) UpdateByExternalID(ctx context.Context, externalID string, update model.UserUpdate) (model.User, error) {
	ret := _m.Called(ctx, externalID, update)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewUserStore creates a new instance of UserStore. It also registers a
// cleanup function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
