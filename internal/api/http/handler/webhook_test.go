package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/mocks"
	"github.com/dtroode/codemap-billing/internal/model"
	"github.com/dtroode/codemap-billing/internal/testutil"
)

func TestWebhook_Receive(t *testing.T) {
	t.Parallel()

	payload := `{"id":"evt_1","type":"customer.subscription.updated"}`

	tests := []struct {
		name       string
		outcome    model.Outcome
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{name: "applied", outcome: model.OutcomeApplied, wantStatus: http.StatusOK, wantBody: `{"received":true}`},
		{name: "ignored", outcome: model.OutcomeIgnored, wantStatus: http.StatusOK, wantBody: `{"received":true}`},
		{name: "unresolved still acknowledged", outcome: model.OutcomeUnresolved, wantStatus: http.StatusOK, wantBody: `{"received":true}`},
		{
			name:       "bad signature",
			outcome:    model.OutcomeRejected,
			svcErr:     fmt.Errorf("parse: %w", model.ErrSignature),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid signature"}`,
		},
		{
			name:       "malformed payload",
			outcome:    model.OutcomeRejected,
			svcErr:     fmt.Errorf("parse: %w", model.ErrBadRequest),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "processing failure asks for retry",
			outcome:    model.OutcomeFailed,
			svcErr:     fmt.Errorf("%w: timeout", model.ErrUpstreamProvider),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewWebhookService(t)
			svc.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(tt.outcome, tt.svcErr)

			h := NewWebhook(svc, testutil.MakeNoopLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
			req.Header.Set("Stripe-Signature", "t=1,v1=abc")
			rec := httptest.NewRecorder()

			h.Receive(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWebhook_Receive_BodyTooLarge(t *testing.T) {
	t.Parallel()

	h := NewWebhook(mocks.NewWebhookService(t), testutil.MakeNoopLogger())
	body := bytes.Repeat([]byte("a"), webhookBodyLimit+1)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, rec.Body.String())
}
