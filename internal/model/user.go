package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription plan of a user.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// IsPaid reports whether the plan is billed.
func (p Plan) IsPaid() bool {
	return p == PlanMonthly || p == PlanYearly
}

// UserStore defines persistence operations for users keyed by external identity id.
type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (User, error)
	// UpsertByExternalID inserts a user with default subscription state or,
	// if one already exists, refreshes its email. It never touches billing fields.
	UpsertByExternalID(ctx context.Context, externalID, email string) (User, error)
	// UpdateByExternalID applies update as a single write. Returns ErrNotFound
	// if no user matches.
	UpdateByExternalID(ctx context.Context, externalID string, update UserUpdate) (User, error)
	Ping(ctx context.Context) error
}

// User is the account record of an authenticated principal.
type User struct {
	ID                uuid.UUID  `json:"id"`
	ExternalID        string     `json:"clerk_user_id"`
	Email             string     `json:"email"`
	PaymentCustomerID string     `json:"stripe_customer_id,omitempty"`
	Plan              Plan       `json:"plan"`
	IsActive          bool       `json:"is_active"`
	BillingEndDate    *time.Time `json:"billing_end_date,omitempty"`
	TokenSavings      int64      `json:"token_savings"`
	ContextRequests   int64      `json:"context_requests"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// HasAccess is the feature gate: free users get basic access, paid users
// need an active subscription.
func (u User) HasAccess() bool {
	return u.Plan == PlanFree || u.IsActive
}

// Subscription returns the billing triad of the user.
func (u User) Subscription() SubscriptionState {
	return SubscriptionState{Plan: u.Plan, IsActive: u.IsActive, BillingEndDate: u.BillingEndDate}
}

// SubscriptionState is the (plan, is_active, billing_end_date) triad. It is
// always written as one unit.
type SubscriptionState struct {
	Plan           Plan
	IsActive       bool
	BillingEndDate *time.Time
}

// FreeSubscription is the state of a user without a subscription.
func FreeSubscription() SubscriptionState {
	return SubscriptionState{Plan: PlanFree}
}

// UsageCounters are the usage statistics reported by the client.
type UsageCounters struct {
	TokenSavings    int64 `json:"token_savings"`
	ContextRequests int64 `json:"context_requests"`
}

// UserUpdate is a partial update of a user. Nil fields are left untouched.
type UserUpdate struct {
	// PaymentCustomerID is applied only while the stored value is empty.
	PaymentCustomerID *string
	Subscription      *SubscriptionState
	Usage             *UsageCounters
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.PaymentCustomerID == nil && u.Subscription == nil && u.Usage == nil
}

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	ExternalID string
	Email      string
}

// IsZero reports whether no principal is present.
func (p Principal) IsZero() bool {
	return p.ExternalID == ""
}
