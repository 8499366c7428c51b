package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
)

// BillingConfig holds the settings of checkout and portal flows.
type BillingConfig struct {
	BaseURL        string
	CorrelationKey string
	Catalog        Catalog
}

// Billing starts checkout and portal sessions. It never writes subscription
// state; that arrives through webhooks.
type Billing struct {
	account  *Account
	provider model.BillingProvider
	cfg      BillingConfig
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewBilling(
	account *Account,
	provider model.BillingProvider,
	cfg BillingConfig,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Billing {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Billing{
		account:  account,
		provider: provider,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *Billing) Plans() []model.PlanOffer {
	return s.cfg.Catalog.Offers()
}

// CreateCheckoutSession returns the redirect url of a subscription checkout.
// priceSelector is a configured price id or a plan key.
func (s *Billing) CreateCheckoutSession(ctx context.Context, principal model.Principal, priceSelector string) (url string, err error) {
	if principal.IsZero() {
		return "", model.ErrUnauthorized
	}
	if priceSelector == "" {
		return "", fmt.Errorf("%w: price id is required", model.ErrBadRequest)
	}
	offer, ok := s.cfg.Catalog.Resolve(priceSelector)
	if !ok {
		return "", fmt.Errorf("%w: unknown price %q", model.ErrBadRequest, priceSelector)
	}

	defer func() { s.metrics.Session("checkout", err) }()

	user, err := s.account.GetUser(ctx, principal)
	if err != nil {
		return "", err
	}

	user, err = s.account.LinkPaymentCustomer(ctx, user)
	if err != nil {
		return "", err
	}

	url, err = s.provider.CreateCheckoutSession(ctx, model.CheckoutParams{
		CustomerID: user.PaymentCustomerID,
		PriceID:    offer.PriceID,
		SuccessURL: s.cfg.BaseURL + "/dashboard?success=true",
		CancelURL:  s.cfg.BaseURL + "/pricing?canceled=true",
		Metadata:   map[string]string{s.cfg.CorrelationKey: user.ExternalID},
	})
	if err != nil {
		s.logger.Error("Billing service: failed to create checkout session",
			"external_id", user.ExternalID, "customer_id", user.PaymentCustomerID, "error", err)
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Info("Billing service: checkout session created",
		"external_id", user.ExternalID, "plan", offer.Key)

	return url, nil
}

// CreatePortalSession returns the redirect url of the customer portal. The
// user must already have a payment customer.
func (s *Billing) CreatePortalSession(ctx context.Context, principal model.Principal) (url string, err error) {
	if principal.IsZero() {
		return "", model.ErrUnauthorized
	}

	defer func() { s.metrics.Session("portal", err) }()

	user, err := s.account.GetUser(ctx, principal)
	if err != nil {
		return "", err
	}
	if user.PaymentCustomerID == "" {
		return "", model.ErrBillingAccountMissing
	}

	url, err = s.provider.CreatePortalSession(ctx, user.PaymentCustomerID, s.cfg.BaseURL+"/account")
	if err != nil {
		s.logger.Error("Billing service: failed to create portal session",
			"external_id", user.ExternalID, "customer_id", user.PaymentCustomerID, "error", err)
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}

	return url, nil
}
