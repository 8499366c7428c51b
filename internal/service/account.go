package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
)

// Account provisions users and links them to a payment customer.
type Account struct {
	userStore      model.UserStore
	provider       model.BillingProvider
	correlationKey string
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

func NewAccount(
	userStore model.UserStore,
	provider model.BillingProvider,
	correlationKey string,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Account {
	return &Account{
		userStore:      userStore,
		provider:       provider,
		correlationKey: correlationKey,
		metrics:        metrics,
		logger:         logger,
	}
}

// Provision returns the user of principal, creating it with the free plan on
// first access. An empty email falls back to the one in the principal.
func (s *Account) Provision(ctx context.Context, principal model.Principal, email string) (model.User, error) {
	if principal.IsZero() {
		return model.User{}, model.ErrUnauthorized
	}
	if email == "" {
		email = principal.Email
	}

	user, err := s.userStore.FindByExternalID(ctx, principal.ExternalID)
	switch {
	case err == nil:
		if email == "" || email == user.Email {
			return user, nil
		}
	case errors.Is(err, model.ErrNotFound):
		if email == "" {
			return model.User{}, fmt.Errorf("%w: email is required", model.ErrBadRequest)
		}
	default:
		s.logger.Error("Account service: failed to get user",
			"external_id", principal.ExternalID, "error", err)
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	user, err = s.userStore.UpsertByExternalID(ctx, principal.ExternalID, email)
	if err != nil {
		s.logger.Error("Account service: failed to upsert user",
			"external_id", principal.ExternalID, "error", err)
		return model.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	s.logger.Info("Account service: user provisioned", "external_id", principal.ExternalID)

	return user, nil
}

// LinkPaymentCustomer makes sure user has a payment customer. It never
// creates a second customer for a user that already has one.
func (s *Account) LinkPaymentCustomer(ctx context.Context, user model.User) (model.User, error) {
	if user.PaymentCustomerID != "" {
		return user, nil
	}

	fresh, err := s.userStore.FindByExternalID(ctx, user.ExternalID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if fresh.PaymentCustomerID != "" {
		return fresh, nil
	}

	customerID, err := s.provider.CreateCustomer(ctx, fresh.Email, map[string]string{
		s.correlationKey: fresh.ExternalID,
	})
	if err != nil {
		s.logger.Error("Account service: failed to create payment customer",
			"external_id", fresh.ExternalID, "error", err)
		return model.User{}, fmt.Errorf("failed to create payment customer: %w", err)
	}
	s.metrics.CustomerCreated()

	linked, err := s.userStore.UpdateByExternalID(ctx, fresh.ExternalID, model.UserUpdate{
		PaymentCustomerID: &customerID,
	})
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("Account service: user vanished before customer link",
			"external_id", fresh.ExternalID, "customer_id", customerID)
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("Account service: failed to persist payment customer",
			"external_id", fresh.ExternalID, "customer_id", customerID, "error", err)
		return model.User{}, fmt.Errorf("failed to persist payment customer: %w", err)
	}

	if linked.PaymentCustomerID != customerID {
		s.logger.Warn("Account service: concurrent customer link, keeping stored customer",
			"external_id", fresh.ExternalID,
			"customer_id", linked.PaymentCustomerID,
			"orphaned_customer_id", customerID)
	} else {
		s.logger.Info("Account service: payment customer linked",
			"external_id", fresh.ExternalID, "customer_id", customerID)
	}

	return linked, nil
}

func (s *Account) GetUser(ctx context.Context, principal model.Principal) (model.User, error) {
	if principal.IsZero() {
		return model.User{}, model.ErrUnauthorized
	}

	user, err := s.userStore.FindByExternalID(ctx, principal.ExternalID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUsage overwrites both counters. Concurrent reports are last write wins.
func (s *Account) UpdateUsage(ctx context.Context, principal model.Principal, usage model.UsageCounters) (model.User, error) {
	if principal.IsZero() {
		return model.User{}, model.ErrUnauthorized
	}
	if usage.TokenSavings < 0 || usage.ContextRequests < 0 {
		return model.User{}, fmt.Errorf("%w: counters must be non-negative", model.ErrBadRequest)
	}

	user, err := s.userStore.UpdateByExternalID(ctx, principal.ExternalID, model.UserUpdate{Usage: &usage})
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("Account service: failed to update usage",
			"external_id", principal.ExternalID, "error", err)
		return model.User{}, fmt.Errorf("failed to update usage: %w", err)
	}

	return user, nil
}
