package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/codemap-billing/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "unauthorized", err: model.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantMsg: "unauthorized"},
		{name: "bad request", err: fmt.Errorf("%w: file type is required", model.ErrBadRequest), wantStatus: http.StatusBadRequest, wantMsg: "bad request"},
		{name: "signature", err: fmt.Errorf("verify: %w", model.ErrSignature), wantStatus: http.StatusBadRequest, wantMsg: "invalid signature"},
		{name: "billing account missing", err: model.ErrBillingAccountMissing, wantStatus: http.StatusBadRequest, wantMsg: "no billing account found"},
		{name: "subscription required", err: model.ErrSubscriptionRequired, wantStatus: http.StatusForbidden, wantMsg: "subscription required"},
		{name: "user not found", err: model.ErrUserNotFound, wantStatus: http.StatusNotFound, wantMsg: "user not found"},
		{name: "file not found", err: model.ErrFileNotFound, wantStatus: http.StatusNotFound, wantMsg: "file not found"},
		{name: "row not found", err: model.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "not found"},
		{name: "upstream", err: fmt.Errorf("%w: card_declined req_123", model.ErrUpstreamProvider), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
		{name: "internal", err: model.ErrInternal, wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
		{name: "unknown", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.wantMsg), rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "req_123")
		})
	}
}
