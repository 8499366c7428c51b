package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/model"
)

// BillingProvider is a mock type for the model.BillingProvider type.
type BillingProvider struct {
	mock.Mock
}

func (_m *BillingProvider) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	ret := _m.Called(ctx, email, metadata)
	return ret.String(0), ret.Error(1)
}

func (_m *BillingProvider) CreateCheckoutSession(ctx context.Context, params model.CheckoutParams) (string, error) {
	ret := _m.Called(ctx, params)
	return ret.String(0), ret.Error(1)
}

func (_m *BillingProvider) CreatePortalSession(ctx context.Context, customerID string, returnURL string) (string, error) {
	ret := _m.Called(ctx, customerID, returnURL)
	return ret.String(0), ret.Error(1)
}

func (_m *BillingProvider) ParseEvent(payload []byte, signature string) (model.Event, error) {
	ret := _m.Called(payload, signature)
	var r0 model.Event
	if ev := ret.Get(0); ev != nil {
		r0 = ev.(model.Event)
	}
	return r0, ret.Error(1)
}

func (_m *BillingProvider) GetSubscription(ctx context.Context, subscriptionID string) (model.Subscription, error) {
	ret := _m.Called(ctx, subscriptionID)
	return ret.Get(0).(model.Subscription), ret.Error(1)
}

func (_m *BillingProvider) GetCustomer(ctx context.Context, customerID string) (model.Customer, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Get(0).(model.Customer), ret.Error(1)
}

// NewBillingProvider creates a new instance of BillingProvider. It also
// registers a cleanup function to assert the mocks expectations.
func NewBillingProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *BillingProvider {
	m := &BillingProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
