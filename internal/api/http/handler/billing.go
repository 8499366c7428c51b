package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/model"
)

// BillingService defines the hosted checkout and portal flows.
type BillingService interface {
	Plans() []model.PlanOffer
	CreateCheckoutSession(ctx context.Context, principal model.Principal, priceSelector string) (string, error)
	CreatePortalSession(ctx context.Context, principal model.Principal) (string, error)
}

type checkoutRequest struct {
	PriceID string `json:"priceId"`
}

type sessionResponse struct {
	URL string `json:"url"`
}

type plansResponse struct {
	Plans []model.PlanOffer `json:"plans"`
}

// Billing handles plan listing and provider-hosted sessions.
type Billing struct {
	billingService BillingService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewBilling creates a new Billing handler.
func NewBilling(billingService BillingService, contextManager model.ContextManager, logger *logger.Logger) *Billing {
	return &Billing{
		billingService: billingService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Plans lists the purchasable plans.
func (h *Billing) Plans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, plansResponse{Plans: h.billingService.Plans()})
}

// CreateCheckoutSession returns the hosted checkout URL for the requested price.
func (h *Billing) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	url, err := h.billingService.CreateCheckoutSession(r.Context(), principal, req.PriceID)
	if err != nil {
		h.logger.Error("Billing handler: checkout session failed",
			"external_id", principal.ExternalID,
			"price_id", req.PriceID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{URL: url})
}

// CreatePortalSession returns the self-service portal URL.
func (h *Billing) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	url, err := h.billingService.CreatePortalSession(r.Context(), principal)
	if err != nil {
		h.logger.Error("Billing handler: portal session failed",
			"external_id", principal.ExternalID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{URL: url})
}
