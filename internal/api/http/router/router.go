package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/codemap-billing/internal/api/http/handler"
	"github.com/dtroode/codemap-billing/internal/api/http/middleware"
	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Account  handler.AccountService
	Billing  handler.BillingService
	Webhook  handler.WebhookService
	Download handler.DownloadService
	Health   handler.Pinger
}

// Router builds the HTTP routing tree.
type Router struct {
	services       Services
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	services Services,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Register wires middleware and routes. The webhook and plan listing are public,
// everything else under /api requires a bearer token.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	instrument := middleware.NewMetrics(r.metrics)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	accountHandler := handler.NewAccount(r.services.Account, r.contextManager, r.logger)
	billingHandler := handler.NewBilling(r.services.Billing, r.contextManager, r.logger)
	webhookHandler := handler.NewWebhook(r.services.Webhook, r.logger)
	downloadHandler := handler.NewDownload(r.services.Download, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.services.Health, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handle)
	mux.Use(instrument.Handle)
	mux.Use(chimw.Recoverer)

	mux.Get("/healthz", healthHandler.Check)

	mux.Route("/api", func(api chi.Router) {
		api.Get("/plans", billingHandler.Plans)
		api.Post("/webhooks/stripe", webhookHandler.Receive)

		api.Group(func(private chi.Router) {
			private.Use(authenticate.Handle)

			private.Get("/user", accountHandler.GetUser)
			private.Post("/user", accountHandler.Provision)
			private.Put("/user", accountHandler.UpdateUsage)

			private.Post("/create-checkout-session", billingHandler.CreateCheckoutSession)
			private.Post("/create-portal-session", billingHandler.CreatePortalSession)

			private.Get("/download", downloadHandler.Serve)
		})
	})

	return mux
}
