package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpcontext "github.com/dtroode/codemap-billing/internal/api/http/context"
	"github.com/dtroode/codemap-billing/internal/api/http/router"
	httpserver "github.com/dtroode/codemap-billing/internal/api/http/server"
	"github.com/dtroode/codemap-billing/internal/billing/stripe"
	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
	"github.com/dtroode/codemap-billing/internal/server"
	"github.com/dtroode/codemap-billing/internal/service"
	"github.com/dtroode/codemap-billing/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := metrics.New()

	userStore, closeStore, err := openUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	storageClient, err := dialStorage(ctx, cfg)
	if err != nil {
		return err
	}

	provider := stripe.NewProvider(stripe.Config{
		SecretKey:      cfg.Stripe.SecretKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		CorrelationKey: cfg.Stripe.CorrelationKey,
	})

	accountService := service.NewAccount(userStore, provider, cfg.Stripe.CorrelationKey, m, log)
	billingService := service.NewBilling(accountService, provider, service.BillingConfig{
		BaseURL:        cfg.AppBaseURL,
		CorrelationKey: cfg.Stripe.CorrelationKey,
		Catalog:        service.NewCatalog(cfg.Stripe.PriceMonthly, cfg.Stripe.PriceYearly),
	}, m, log)
	reconciler := service.NewReconciler(userStore, provider, cfg.Stripe.CorrelationKey, m, log)
	downloadService := service.NewDownload(userStore, storageClient, cfg.Storage.Prefix, m, log)

	r := router.New(router.Services{
		Account:  accountService,
		Billing:  billingService,
		Webhook:  reconciler,
		Download: downloadService,
		Health:   userStore,
	}, token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer), httpcontext.NewManager(), m, log)

	type listener struct {
		server   model.Server
		security model.SecurityLayer
	}
	listeners := []listener{{
		server:   httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout),
		security: server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
	}}
	if cfg.Metrics.Enabled {
		listeners = append(listeners, listener{
			server:   httpserver.NewHTTPServer(m.Handler(), fmt.Sprintf(":%s", cfg.Metrics.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout),
			security: server.NewPlainListener(),
		})
	}

	logAppVersion(log)

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		l := l
		g.Go(func() error {
			log.Info("Starting server on", "address", l.server.Address())
			if err := l.server.Start(l.security); err != nil {
				return fmt.Errorf("server %s: %w", l.server.Address(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, l := range listeners {
			if err := l.server.Stop(shutdownCtx); err != nil {
				log.Error("error during server shutdown", "error", err, "address", l.server.Address())
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func logAppVersion(log *logger.Logger) {
	log.Info("build info",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit)
}
