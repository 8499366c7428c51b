package model

import "context"

// Event is a verified, decoded webhook delivery. The set of implementations
// is closed; use Accept to dispatch.
type Event interface {
	EventID() string
	EventType() string
	Accept(ctx context.Context, v EventVisitor) (Outcome, error)
	isEvent()
}

// EventVisitor handles every event kind. A new kind adds a method here.
type EventVisitor interface {
	VisitCheckoutCompleted(ctx context.Context, e CheckoutCompleted) (Outcome, error)
	VisitSubscriptionUpdated(ctx context.Context, e SubscriptionUpdated) (Outcome, error)
	VisitSubscriptionDeleted(ctx context.Context, e SubscriptionDeleted) (Outcome, error)
	VisitUnhandled(ctx context.Context, e UnhandledEvent) (Outcome, error)
}

// Outcome reports what the reconciler did with an event.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeFailed     Outcome = "failed"
	OutcomeRejected   Outcome = "rejected"
)

// Provider event type names.
const (
	EventTypeCheckoutCompleted   = "checkout.session.completed"
	EventTypeSubscriptionUpdated = "customer.subscription.updated"
	EventTypeSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutCompleted is emitted when a checkout session finishes.
// CorrelationID comes from the session metadata.
type CheckoutCompleted struct {
	ID             string
	SessionID      string
	CorrelationID  string
	SubscriptionID string
}

func (e CheckoutCompleted) EventID() string   { return e.ID }
func (e CheckoutCompleted) EventType() string { return EventTypeCheckoutCompleted }
func (e CheckoutCompleted) Accept(ctx context.Context, v EventVisitor) (Outcome, error) {
	return v.VisitCheckoutCompleted(ctx, e)
}
func (CheckoutCompleted) isEvent() {}

// SubscriptionUpdated carries the subscription as it is after the change.
type SubscriptionUpdated struct {
	ID           string
	Subscription Subscription
}

func (e SubscriptionUpdated) EventID() string   { return e.ID }
func (e SubscriptionUpdated) EventType() string { return EventTypeSubscriptionUpdated }
func (e SubscriptionUpdated) Accept(ctx context.Context, v EventVisitor) (Outcome, error) {
	return v.VisitSubscriptionUpdated(ctx, e)
}
func (SubscriptionUpdated) isEvent() {}

// SubscriptionDeleted is emitted when a subscription ends.
type SubscriptionDeleted struct {
	ID           string
	Subscription Subscription
}

func (e SubscriptionDeleted) EventID() string   { return e.ID }
func (e SubscriptionDeleted) EventType() string { return EventTypeSubscriptionDeleted }
func (e SubscriptionDeleted) Accept(ctx context.Context, v EventVisitor) (Outcome, error) {
	return v.VisitSubscriptionDeleted(ctx, e)
}
func (SubscriptionDeleted) isEvent() {}

// UnhandledEvent is any event kind the service does not act on.
type UnhandledEvent struct {
	ID   string
	Type string
}

func (e UnhandledEvent) EventID() string   { return e.ID }
func (e UnhandledEvent) EventType() string { return e.Type }
func (e UnhandledEvent) Accept(ctx context.Context, v EventVisitor) (Outcome, error) {
	return v.VisitUnhandled(ctx, e)
}
func (UnhandledEvent) isEvent() {}
