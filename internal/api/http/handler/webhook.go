package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/model"
)

const (
	webhookBodyLimit   = 1 << 20
	signatureHeaderKey = "Stripe-Signature"
)

// WebhookService verifies and reconciles provider events.
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (model.Outcome, error)
}

type webhookReceivedResponse struct {
	Received bool `json:"received"`
}

// Webhook receives payment provider event deliveries.
type Webhook struct {
	webhookService WebhookService
	logger         *logger.Logger
}

// NewWebhook creates a new Webhook handler.
func NewWebhook(webhookService WebhookService, logger *logger.Logger) *Webhook {
	return &Webhook{webhookService: webhookService, logger: logger}
}

// Receive acknowledges with 200 every delivery that was verified and processed,
// including events that could not be correlated. Failures answer 4xx/5xx so the
// provider retries.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Webhook handler: failed to read body", "error", err.Error())
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body too large"})
			return
		}
		writeError(w, model.ErrBadRequest)
		return
	}

	outcome, err := h.webhookService.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeaderKey))
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Debug("Webhook handler: delivery processed", "outcome", string(outcome))
	writeJSON(w, http.StatusOK, webhookReceivedResponse{Received: true})
}
