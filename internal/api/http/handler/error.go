package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/codemap-billing/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors to a status code and a client-safe message.
func handleError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrSignature):
		return http.StatusBadRequest, "invalid signature"
	case errors.Is(err, model.ErrBillingAccountMissing):
		return http.StatusBadRequest, "no billing account found"
	case errors.Is(err, model.ErrBadRequest):
		return http.StatusBadRequest, "bad request"
	case errors.Is(err, model.ErrSubscriptionRequired):
		return http.StatusForbidden, "subscription required"
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, model.ErrFileNotFound):
		return http.StatusNotFound, "file not found"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, message := handleError(err)
	writeJSON(w, status, errorResponse{Error: message})
}
