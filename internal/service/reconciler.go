package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
)

var _ model.EventVisitor = (*Reconciler)(nil)

// Reconciler applies verified provider events to the subscription state of
// users. Every application overwrites the whole triad, so redelivered events
// are harmless. Events that cannot be correlated are dropped with a warning.
type Reconciler struct {
	userStore      model.UserStore
	provider       model.BillingProvider
	correlationKey string
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

func NewReconciler(
	userStore model.UserStore,
	provider model.BillingProvider,
	correlationKey string,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Reconciler {
	return &Reconciler{
		userStore:      userStore,
		provider:       provider,
		correlationKey: correlationKey,
		metrics:        metrics,
		logger:         logger,
	}
}

// HandleWebhook verifies and applies one delivery. A non-nil error means the
// delivery was rejected (ErrSignature, ErrBadRequest) or should be redelivered.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) (model.Outcome, error) {
	event, err := r.provider.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, model.ErrSignature) {
			r.metrics.SignatureFailure()
			r.logger.Error("Reconciler: webhook signature verification failed", "error", err)
		} else {
			r.logger.Warn("Reconciler: malformed webhook payload", "error", err)
		}
		return model.OutcomeRejected, err
	}

	start := time.Now()
	outcome, err := event.Accept(ctx, r)
	if err != nil {
		outcome = model.OutcomeFailed
		r.logger.Error("Reconciler: event processing failed",
			"event_id", event.EventID(), "event_type", event.EventType(), "error", err)
	}
	r.metrics.ObserveWebhook(metricsEventType(event), string(outcome), time.Since(start))

	r.logger.Debug("Reconciler: event handled",
		"event_id", event.EventID(), "event_type", event.EventType(), "outcome", outcome)

	return outcome, err
}

// VisitCheckoutCompleted correlates through the checkout session metadata.
func (r *Reconciler) VisitCheckoutCompleted(ctx context.Context, e model.CheckoutCompleted) (model.Outcome, error) {
	if e.CorrelationID == "" {
		r.logger.Warn("Reconciler: checkout session carries no correlation id",
			"event_id", e.ID, "session_id", e.SessionID)
		return model.OutcomeUnresolved, nil
	}
	if e.SubscriptionID == "" {
		r.logger.Warn("Reconciler: checkout session has no subscription",
			"event_id", e.ID, "session_id", e.SessionID, "external_id", e.CorrelationID)
		return model.OutcomeUnresolved, nil
	}

	sub, err := r.provider.GetSubscription(ctx, e.SubscriptionID)
	if err != nil {
		return model.OutcomeFailed, fmt.Errorf("failed to resolve subscription %s: %w", e.SubscriptionID, err)
	}

	state, ok := r.derive(e.ID, sub, true)
	if !ok {
		return model.OutcomeUnresolved, nil
	}

	return r.write(ctx, e.ID, e.CorrelationID, state)
}

// VisitSubscriptionUpdated correlates through the customer metadata.
func (r *Reconciler) VisitSubscriptionUpdated(ctx context.Context, e model.SubscriptionUpdated) (model.Outcome, error) {
	externalID, outcome, err := r.resolveCustomer(ctx, e.ID, e.Subscription.CustomerID)
	if externalID == "" {
		return outcome, err
	}

	state, ok := r.derive(e.ID, e.Subscription, e.Subscription.Status == model.SubscriptionStatusActive)
	if !ok {
		return model.OutcomeUnresolved, nil
	}

	return r.write(ctx, e.ID, externalID, state)
}

// VisitSubscriptionDeleted resets the user to the free plan whatever state it was in.
func (r *Reconciler) VisitSubscriptionDeleted(ctx context.Context, e model.SubscriptionDeleted) (model.Outcome, error) {
	externalID, outcome, err := r.resolveCustomer(ctx, e.ID, e.Subscription.CustomerID)
	if externalID == "" {
		return outcome, err
	}

	return r.write(ctx, e.ID, externalID, model.FreeSubscription())
}

func (r *Reconciler) VisitUnhandled(_ context.Context, e model.UnhandledEvent) (model.Outcome, error) {
	r.logger.Debug("Reconciler: ignoring event", "event_id", e.ID, "event_type", e.Type)
	return model.OutcomeIgnored, nil
}

// resolveCustomer returns an empty external id together with the outcome to
// report when the customer cannot be correlated.
func (r *Reconciler) resolveCustomer(ctx context.Context, eventID, customerID string) (string, model.Outcome, error) {
	if customerID == "" {
		r.logger.Warn("Reconciler: subscription has no customer", "event_id", eventID)
		return "", model.OutcomeUnresolved, nil
	}

	customer, err := r.provider.GetCustomer(ctx, customerID)
	if err != nil {
		return "", model.OutcomeFailed, fmt.Errorf("failed to resolve customer %s: %w", customerID, err)
	}
	if customer.Deleted {
		r.logger.Warn("Reconciler: customer was deleted upstream",
			"event_id", eventID, "customer_id", customerID)
		return "", model.OutcomeUnresolved, nil
	}

	externalID := customer.Metadata[r.correlationKey]
	if externalID == "" {
		r.logger.Warn("Reconciler: customer carries no correlation id",
			"event_id", eventID, "customer_id", customerID)
		return "", model.OutcomeUnresolved, nil
	}

	return externalID, "", nil
}

func (r *Reconciler) derive(eventID string, sub model.Subscription, active bool) (model.SubscriptionState, bool) {
	state, err := model.DeriveSubscriptionState(sub, active)
	if err != nil {
		r.logger.Warn("Reconciler: cannot derive plan from subscription",
			"event_id", eventID, "subscription_id", sub.ID, "error", err)
		return model.SubscriptionState{}, false
	}
	return state, true
}

func (r *Reconciler) write(ctx context.Context, eventID, externalID string, state model.SubscriptionState) (model.Outcome, error) {
	_, err := r.userStore.UpdateByExternalID(ctx, externalID, model.UserUpdate{Subscription: &state})
	if errors.Is(err, model.ErrNotFound) {
		r.logger.Warn("Reconciler: no user for correlation id",
			"event_id", eventID, "external_id", externalID)
		return model.OutcomeUnresolved, nil
	}
	if err != nil {
		return model.OutcomeFailed, fmt.Errorf("failed to store subscription state: %w", err)
	}

	r.logger.Info("Reconciler: subscription state applied",
		"event_id", eventID,
		"external_id", externalID,
		"plan", state.Plan,
		"is_active", state.IsActive)

	return model.OutcomeApplied, nil
}

// metricsEventType folds unknown kinds into one label value.
func metricsEventType(e model.Event) string {
	if _, ok := e.(model.UnhandledEvent); ok {
		return "other"
	}
	return e.EventType()
}
