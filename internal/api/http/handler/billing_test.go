package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/codemap-billing/internal/mocks"
	"github.com/dtroode/codemap-billing/internal/model"
	"github.com/dtroode/codemap-billing/internal/testutil"
)

func TestBilling_Plans(t *testing.T) {
	t.Parallel()

	svc := mocks.NewBillingService(t)
	svc.On("Plans").Return([]model.PlanOffer{
		{Key: model.PlanMonthly, Name: "Pro Monthly", PriceID: "price_m", Interval: "month", Price: 9.99},
	})

	h := NewBilling(svc, cm, testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	h.Plans(rec, httptest.NewRequest(http.MethodGet, "/api/plans", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"priceId":"price_m"`)
	assert.Contains(t, rec.Body.String(), `"key":"monthly"`)
}

func TestBilling_CreateCheckoutSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantPrice  string
		callSvc    bool
		svcURL     string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       `{"priceId":"price_m"}`,
			wantPrice:  "price_m",
			callSvc:    true,
			svcURL:     "https://checkout.stripe.com/c/pay/cs_1",
			wantStatus: http.StatusOK,
			wantBody:   `{"url":"https://checkout.stripe.com/c/pay/cs_1"}`,
		},
		{
			name:       "unknown price",
			body:       `{"priceId":"price_x"}`,
			wantPrice:  "price_x",
			callSvc:    true,
			svcErr:     fmt.Errorf("%w: invalid price", model.ErrBadRequest),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "missing body",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "user not provisioned",
			body:       `{"priceId":"price_m"}`,
			wantPrice:  "price_m",
			callSvc:    true,
			svcErr:     model.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"user not found"}`,
		},
		{
			name:       "provider failure stays generic",
			body:       `{"priceId":"price_m"}`,
			wantPrice:  "price_m",
			callSvc:    true,
			svcErr:     fmt.Errorf("%w: No such price: 'price_m'", model.ErrUpstreamProvider),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewBillingService(t)
			if tt.callSvc {
				svc.On("CreateCheckoutSession", mock.Anything, alice, tt.wantPrice).Return(tt.svcURL, tt.svcErr)
			}

			h := NewBilling(svc, cm, testutil.MakeNoopLogger())
			rec := httptest.NewRecorder()
			h.CreateCheckoutSession(rec, authedRequest(http.MethodPost, "/api/create-checkout-session", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestBilling_CreatePortalSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svcURL     string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			svcURL:     "https://billing.stripe.com/p/session/bps_1",
			wantStatus: http.StatusOK,
			wantBody:   `{"url":"https://billing.stripe.com/p/session/bps_1"}`,
		},
		{
			name:       "no billing account",
			svcErr:     model.ErrBillingAccountMissing,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"no billing account found"}`,
		},
		{
			name:       "user not found",
			svcErr:     model.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"user not found"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewBillingService(t)
			svc.On("CreatePortalSession", mock.Anything, alice).Return(tt.svcURL, tt.svcErr)

			h := NewBilling(svc, cm, testutil.MakeNoopLogger())
			rec := httptest.NewRecorder()
			h.CreatePortalSession(rec, authedRequest(http.MethodPost, "/api/create-portal-session", ""))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestBilling_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	h := NewBilling(mocks.NewBillingService(t), cm, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.CreateCheckoutSession(rec, httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.CreatePortalSession(rec, httptest.NewRequest(http.MethodPost, "/api/create-portal-session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
