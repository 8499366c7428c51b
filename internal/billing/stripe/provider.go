package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dtroode/codemap-billing/internal/model"
)

// Internal adapter interface to enable mocking without the Stripe API.
type stripeAPI interface {
	NewCustomer(params *stripelib.CustomerParams) (*stripelib.Customer, error)
	GetCustomer(id string, params *stripelib.CustomerParams) (*stripelib.Customer, error)
	NewCheckoutSession(params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error)
	NewPortalSession(params *stripelib.BillingPortalSessionParams) (*stripelib.BillingPortalSession, error)
	GetSubscription(id string, params *stripelib.SubscriptionParams) (*stripelib.Subscription, error)
}

// Wrapper to adapt *client.API to stripeAPI.
type stripeClientWrapper struct{ c *client.API }

func (w stripeClientWrapper) NewCustomer(params *stripelib.CustomerParams) (*stripelib.Customer, error) {
	return w.c.Customers.New(params)
}
func (w stripeClientWrapper) GetCustomer(id string, params *stripelib.CustomerParams) (*stripelib.Customer, error) {
	return w.c.Customers.Get(id, params)
}
func (w stripeClientWrapper) NewCheckoutSession(params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error) {
	return w.c.CheckoutSessions.New(params)
}
func (w stripeClientWrapper) NewPortalSession(params *stripelib.BillingPortalSessionParams) (*stripelib.BillingPortalSession, error) {
	return w.c.BillingPortalSessions.New(params)
}
func (w stripeClientWrapper) GetSubscription(id string, params *stripelib.SubscriptionParams) (*stripelib.Subscription, error) {
	return w.c.Subscriptions.Get(id, params)
}

// Config holds the credentials of one Stripe account.
type Config struct {
	SecretKey     string
	WebhookSecret string
	// CorrelationKey is the metadata key carrying the external identity id.
	CorrelationKey string
}

var _ model.BillingProvider = (*Provider)(nil)

type Provider struct {
	api            stripeAPI
	webhookSecret  string
	correlationKey string
}

// NewProvider creates a provider backed by a dedicated Stripe client.
func NewProvider(cfg Config) *Provider {
	return NewProviderWithAPI(stripeClientWrapper{c: client.New(cfg.SecretKey, nil)}, cfg)
}

// NewProviderWithAPI allows injecting a mockable API (used in tests).
func NewProviderWithAPI(api stripeAPI, cfg Config) *Provider {
	return &Provider{
		api:            api,
		webhookSecret:  cfg.WebhookSecret,
		correlationKey: cfg.CorrelationKey,
	}
}

func (p *Provider) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	params := &stripelib.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripelib.String(email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := p.api.NewCustomer(params)
	if err != nil {
		return "", upstream("failed to create customer", err)
	}

	return customer.ID, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in model.CheckoutParams) (string, error) {
	params := &stripelib.CheckoutSessionParams{
		Mode:     stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		Customer: stripelib.String(in.CustomerID),
		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{
				Price:    stripelib.String(in.PriceID),
				Quantity: stripelib.Int64(1),
			},
		},
		SuccessURL: stripelib.String(in.SuccessURL),
		CancelURL:  stripelib.String(in.CancelURL),
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := p.api.NewCheckoutSession(params)
	if err != nil {
		return "", upstream("failed to create checkout session", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("%w: checkout session %s has no url", model.ErrUpstreamProvider, session.ID)
	}

	return session.URL, nil
}

func (p *Provider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripelib.BillingPortalSessionParams{
		Customer:  stripelib.String(customerID),
		ReturnURL: stripelib.String(returnURL),
	}
	params.Context = ctx

	session, err := p.api.NewPortalSession(params)
	if err != nil {
		return "", upstream("failed to create portal session", err)
	}

	return session.URL, nil
}

func (p *Provider) GetSubscription(ctx context.Context, subscriptionID string) (model.Subscription, error) {
	params := &stripelib.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.GetSubscription(subscriptionID, params)
	if err != nil {
		return model.Subscription{}, upstream("failed to retrieve subscription", err)
	}

	return toSubscription(sub), nil
}

func (p *Provider) GetCustomer(ctx context.Context, customerID string) (model.Customer, error) {
	params := &stripelib.CustomerParams{}
	params.Context = ctx

	customer, err := p.api.GetCustomer(customerID, params)
	if err != nil {
		return model.Customer{}, upstream("failed to retrieve customer", err)
	}

	return model.Customer{
		ID:       customer.ID,
		Email:    customer.Email,
		Deleted:  customer.Deleted,
		Metadata: customer.Metadata,
	}, nil
}

// ParseEvent verifies the signature header before decoding anything.
func (p *Provider) ParseEvent(payload []byte, signature string) (model.Event, error) {
	if err := webhook.ValidatePayload(payload, signature, p.webhookSecret); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSignature, err)
	}

	var event stripelib.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode event: %w", model.ErrBadRequest, err)
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", model.ErrBadRequest, event.ID)
	}

	switch string(event.Type) {
	case model.EventTypeCheckoutCompleted:
		var session stripelib.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: failed to decode checkout session: %w", model.ErrBadRequest, err)
		}
		e := model.CheckoutCompleted{
			ID:            event.ID,
			SessionID:     session.ID,
			CorrelationID: session.Metadata[p.correlationKey],
		}
		if session.Subscription != nil {
			e.SubscriptionID = session.Subscription.ID
		}
		return e, nil

	case model.EventTypeSubscriptionUpdated, model.EventTypeSubscriptionDeleted:
		var sub stripelib.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: failed to decode subscription: %w", model.ErrBadRequest, err)
		}
		if event.Type == stripelib.EventType(model.EventTypeSubscriptionDeleted) {
			return model.SubscriptionDeleted{ID: event.ID, Subscription: toSubscription(&sub)}, nil
		}
		return model.SubscriptionUpdated{ID: event.ID, Subscription: toSubscription(&sub)}, nil

	default:
		return model.UnhandledEvent{ID: event.ID, Type: string(event.Type)}, nil
	}
}

func toSubscription(sub *stripelib.Subscription) model.Subscription {
	out := model.Subscription{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items == nil {
		return out
	}

	for _, it := range sub.Items.Data {
		if it == nil {
			continue
		}
		item := model.SubscriptionItem{}
		if it.Price != nil {
			item.PriceID = it.Price.ID
			if it.Price.Recurring != nil {
				item.Interval = string(it.Price.Recurring.Interval)
			}
		}
		if it.CurrentPeriodEnd > 0 {
			item.CurrentPeriodEnd = time.Unix(it.CurrentPeriodEnd, 0).UTC()
		}
		out.Items = append(out.Items, item)
	}

	return out
}

func upstream(msg string, err error) error {
	var stripeErr *stripelib.Error
	if errors.As(err, &stripeErr) && stripeErr.RequestID != "" {
		return fmt.Errorf("%s (request %s): %w: %w", msg, stripeErr.RequestID, model.ErrUpstreamProvider, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, model.ErrUpstreamProvider, err)
}
