package testutil

import (
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

// SignStripePayload returns payload and a Stripe-Signature header valid for secret.
func SignStripePayload(payload []byte, secret string) ([]byte, string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

// StripeEvent renders an event envelope around object.
func StripeEvent(id, eventType string, object map[string]any) []byte {
	return mustMarshal(map[string]any{
		"id":          id,
		"object":      "event",
		"api_version": "2025-04-30.basil",
		"type":        eventType,
		"data":        map[string]any{"object": object},
	})
}

// StripeSubscription renders a subscription object with one line item.
func StripeSubscription(id, customerID, status, interval string, periodEnd int64) map[string]any {
	return map[string]any{
		"id":       id,
		"object":   "subscription",
		"customer": customerID,
		"status":   status,
		"items": map[string]any{
			"object": "list",
			"data": []any{
				map[string]any{
					"id":                 "si_" + id,
					"object":             "subscription_item",
					"current_period_end": periodEnd,
					"price": map[string]any{
						"id":        "price_" + interval,
						"object":    "price",
						"recurring": map[string]any{"interval": interval},
					},
				},
			},
		},
	}
}

// StripeCheckoutSession renders a completed subscription-mode checkout session.
func StripeCheckoutSession(id, subscriptionID string, metadata map[string]string) map[string]any {
	return map[string]any{
		"id":           id,
		"object":       "checkout.session",
		"mode":         "subscription",
		"status":       "complete",
		"subscription": subscriptionID,
		"metadata":     metadata,
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
