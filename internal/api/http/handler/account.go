package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/model"
)

// AccountService defines user provisioning and profile operations.
type AccountService interface {
	Provision(ctx context.Context, principal model.Principal, email string) (model.User, error)
	GetUser(ctx context.Context, principal model.Principal) (model.User, error)
	UpdateUsage(ctx context.Context, principal model.Principal, usage model.UsageCounters) (model.User, error)
}

type provisionRequest struct {
	Email string `json:"email"`
}

// Account handles the /api/user endpoints.
type Account struct {
	accountService AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(accountService AccountService, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		accountService: accountService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// GetUser returns the stored user of the caller.
func (h *Account) GetUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.accountService.GetUser(r.Context(), principal)
	if err != nil {
		h.logger.Error("Account handler: get user failed",
			"external_id", principal.ExternalID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Provision creates the caller's user on first sign-in. The body is optional.
func (h *Account) Provision(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var req provisionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.accountService.Provision(r.Context(), principal, req.Email)
	if err != nil {
		h.logger.Error("Account handler: provision failed",
			"external_id", principal.ExternalID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUsage overwrites the caller's usage counters. Omitted counters are written as zero.
func (h *Account) UpdateUsage(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var usage model.UsageCounters
	if err := decodeJSON(w, r, &usage, false); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.accountService.UpdateUsage(r.Context(), principal, usage)
	if err != nil {
		h.logger.Error("Account handler: update usage failed",
			"external_id", principal.ExternalID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
