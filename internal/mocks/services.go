package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/model"
)

// AccountService is a mock type for the handler.AccountService type.
type AccountService struct {
	mock.Mock
}

func (_m *AccountService) Provision(ctx context.Context, principal model.Principal, email string) (model.User, error) {
	ret := _m.Called(ctx, principal, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *AccountService) GetUser(ctx context.Context, principal model.Principal) (model.User, error) {
	ret := _m.Called(ctx, principal)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *AccountService) UpdateUsage(ctx context.Context, principal model.Principal, usage model.UsageCounters) (model.User, error) {
	ret := _m.Called(ctx, principal, usage)
	return ret.Get(0).(model.User), ret.Error(1)
}

// NewAccountService creates a new instance of AccountService. It also
// registers a cleanup function to assert the mocks expectations.
func NewAccountService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountService {
	m := &AccountService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// BillingService is a mock type for the handler.BillingService type.
type BillingService struct {
	mock.Mock
}

func (_m *BillingService) Plans() []model.PlanOffer {
	ret := _m.Called()
	var r0 []model.PlanOffer
	if p := ret.Get(0); p != nil {
		r0 = p.([]model.PlanOffer)
	}
	return r0
}

func (_m *BillingService) CreateCheckoutSession(ctx context.Context, principal model.Principal, priceSelector string) (string, error) {
	ret := _m.Called(ctx, principal, priceSelector)
	return ret.String(0), ret.Error(1)
}

func (_m *BillingService) CreatePortalSession(ctx context.Context, principal model.Principal) (string, error) {
	ret := _m.Called(ctx, principal)
	return ret.String(0), ret.Error(1)
}

// NewBillingService creates a new instance of BillingService. It also
// registers a cleanup function to assert the mocks expectations.
func NewBillingService(t interface {
	mock.TestingT
	Cleanup(func())
}) *BillingService {
	m := &BillingService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// WebhookService is a mock type for the handler.WebhookService type.
type WebhookService struct {
	mock.Mock
}

func (_m *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (model.Outcome, error) {
	ret := _m.Called(ctx, payload, signature)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

// NewWebhookService creates a new instance of WebhookService. It also
// registers a cleanup function to assert the mocks expectations.
func NewWebhookService(t interface {
	mock.TestingT
	Cleanup(func())
}) *WebhookService {
	m := &WebhookService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// DownloadService is a mock type for the handler.DownloadService type.
type DownloadService struct {
	mock.Mock
}

func (_m *DownloadService) Open(ctx context.Context, principal model.Principal, fileType string) (model.Artifact, error) {
	ret := _m.Called(ctx, principal, fileType)
	return ret.Get(0).(model.Artifact), ret.Error(1)
}

// NewDownloadService creates a new instance of DownloadService. It also
// registers a cleanup function to assert the mocks expectations.
func NewDownloadService(t interface {
	mock.TestingT
	Cleanup(func())
}) *DownloadService {
	m := &DownloadService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
