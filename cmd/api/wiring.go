package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mintalist/mintalist-backend/api/routes"
	"github.com/mintalist/mintalist-backend/internal/adclicks"
	"github.com/mintalist/mintalist-backend/internal/contacts"
	"github.com/mintalist/mintalist-backend/internal/hub"
	"github.com/mintalist/mintalist-backend/internal/links"
	"github.com/mintalist/mintalist-backend/internal/menu"
	"github.com/mintalist/mintalist-backend/internal/payments"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/internal/vouchers"
	identitywebhook "github.com/mintalist/mintalist-backend/internal/webhooks/identity"
	"github.com/mintalist/mintalist-backend/pkg/config"
	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/metrics"
	"github.com/mintalist/mintalist-backend/pkg/paymob"
	"github.com/mintalist/mintalist-backend/pkg/redis"
)

const identityDedupeScope = "identity-webhook"

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, business *metrics.BusinessMetrics) (routes.Dependencies, error) {
	conn := dbClient.DB()
	vendorRepo := vendors.NewRepository(conn)
	menuRepo := menu.NewRepository(conn)
	linkRepo := links.NewRepository(conn)

	publicPages, err := vendors.NewPublicPages(vendorRepo, menuRepo, linkRepo, cfg.App.BaseURL, cfg.Cache)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("public pages: %w", err)
	}

	contactSvc, err := contacts.NewService(contacts.NewRepository(conn), vendorRepo, logg)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("contacts service: %w", err)
	}

	vendorSvc, err := vendors.NewService(vendors.ServiceParams{
		Repo:    vendorRepo,
		Menu:    menuRepo,
		Links:   linkRepo,
		Leads:   contactSvc,
		Pages:   publicPages,
		BaseURL: cfg.App.BaseURL,
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("vendor service: %w", err)
	}

	menuSvc, err := menu.NewService(menuRepo, vendorRepo)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("menu service: %w", err)
	}

	linkSvc, err := links.NewService(linkRepo, vendorRepo)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("links service: %w", err)
	}

	gateway, err := newGateway(cfg.Paymob, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	paymentSvc, err := payments.NewService(payments.ServiceParams{
		Repo:       payments.NewRepository(conn),
		Vendors:    vendorRepo,
		Tx:         dbClient,
		Gateway:    gateway,
		HMACSecret: cfg.Paymob.HMACSecret,
		Currency:   cfg.Paymob.Currency,
		Prices: payments.PriceOverrides{
			MonthlyCents: cfg.Paymob.MonthlyCents,
			AnnualCents:  cfg.Paymob.AnnualCents,
		},
		Pages:   publicPages,
		Metrics: business,
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("payment service: %w", err)
	}

	voucherSvc, err := vouchers.NewService(vouchers.ServiceParams{
		Repo:    vouchers.NewRepository(conn),
		Vendors: vendorRepo,
		Tx:      dbClient,
		Pages:   publicPages,
		Metrics: business,
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("voucher service: %w", err)
	}

	adClickSvc, err := adclicks.NewService(adclicks.NewRepository(conn))
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("ad click service: %w", err)
	}

	hubSvc, err := hub.NewService(vendorRepo, paymentSvc, publicPages, logg)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("hub service: %w", err)
	}

	deps := routes.Dependencies{
		DB:              dbClient,
		Redis:           redisClient,
		BusinessMetrics: business,
		Vendors:         vendorSvc,
		PublicPages:     publicPages,
		Menu:            menuSvc,
		Links:           linkSvc,
		Payments:        paymentSvc,
		Vouchers:        voucherSvc,
		Contacts:        contactSvc,
		AdClicks:        adClickSvc,
		Hub:             hubSvc,
		HubAuth:         hub.NewAuthorizer(cfg.Hub),
	}

	if strings.TrimSpace(cfg.Identity.WebhookSecret) == "" {
		logg.Warn(context.Background(), "identity webhook secret not set, webhook disabled")
		return deps, nil
	}
	webhookSvc, err := identitywebhook.NewService(vendorSvc, logg)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("identity webhook service: %w", err)
	}
	verifier, err := identitywebhook.NewVerifier(cfg.Identity.WebhookSecret, cfg.Identity.WebhookTolerance)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("identity webhook verifier: %w", err)
	}
	guard, err := identitywebhook.NewIdempotencyGuard(redisClient, cfg.Identity.WebhookDedupeTTL, identityDedupeScope)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("identity webhook guard: %w", err)
	}
	deps.IdentityWebhook = webhookSvc
	deps.IdentityVerifier = verifier
	deps.IdentityDedupe = guard
	return deps, nil
}

// newGateway returns nil when Paymob is not configured; checkout then reports
// the processor as unavailable.
func newGateway(cfg config.PaymobConfig, logg *logger.Logger) (payments.Gateway, error) {
	if !cfg.Enabled() {
		logg.Warn(context.Background(), "paymob credentials not set, checkout disabled")
		return nil, nil
	}
	client, err := paymob.NewClient(
		paymob.Credentials{APIKey: cfg.APIKey, Username: cfg.Username, Password: cfg.Password},
		cfg.IntegrationID,
		cfg.IframeID,
		paymob.WithBaseURL(cfg.BaseURL),
		paymob.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("paymob client: %w", err)
	}
	return client, nil
}
