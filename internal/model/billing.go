package model

import (
	"context"
	"errors"
	"time"
)

// BillingProvider is the payment provider boundary. Implementations verify
// webhook signatures themselves and wrap call failures with ErrUpstreamProvider.
type BillingProvider interface {
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ParseEvent(payload []byte, signature string) (Event, error)
	GetSubscription(ctx context.Context, subscriptionID string) (Subscription, error)
	GetCustomer(ctx context.Context, customerID string) (Customer, error)
}

// CheckoutParams describes a subscription-mode checkout session.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Customer is the provider-side billing entity.
type Customer struct {
	ID       string
	Email    string
	Deleted  bool
	Metadata map[string]string
}

// SubscriptionStatusActive is the only status that grants access.
const SubscriptionStatusActive = "active"

// BillingIntervalYear maps to the yearly plan, every other interval to monthly.
const BillingIntervalYear = "year"

// Subscription is the provider-side recurring subscription.
type Subscription struct {
	ID         string
	CustomerID string
	Status     string
	Items      []SubscriptionItem
}

// SubscriptionItem is one line item of a subscription.
type SubscriptionItem struct {
	PriceID          string
	Interval         string
	CurrentPeriodEnd time.Time
}

// ErrNoSubscriptionItems is returned when a plan cannot be derived from a subscription.
var ErrNoSubscriptionItems = errors.New("subscription has no items")

// DeriveSubscriptionState computes the triad from the first line item of sub.
func DeriveSubscriptionState(sub Subscription, active bool) (SubscriptionState, error) {
	if len(sub.Items) == 0 {
		return SubscriptionState{}, ErrNoSubscriptionItems
	}
	item := sub.Items[0]

	state := SubscriptionState{Plan: PlanMonthly, IsActive: active}
	if item.Interval == BillingIntervalYear {
		state.Plan = PlanYearly
	}
	if !item.CurrentPeriodEnd.IsZero() {
		end := item.CurrentPeriodEnd.UTC()
		state.BillingEndDate = &end
	}

	return state, nil
}

// PlanOffer is a purchasable plan shown on the pricing page.
type PlanOffer struct {
	Key      Plan     `json:"key"`
	Name     string   `json:"name"`
	PriceID  string   `json:"priceId"`
	Interval string   `json:"interval"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
}
