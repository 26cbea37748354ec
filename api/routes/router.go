package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mintalist/mintalist-backend/api/controllers"
	webhookcontrollers "github.com/mintalist/mintalist-backend/api/controllers/webhooks"
	"github.com/mintalist/mintalist-backend/api/middleware"
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
	"github.com/mintalist/mintalist-backend/pkg/redis"
	"github.com/mintalist/mintalist-backend/pkg/resolver"
)

// Dependencies collects everything the HTTP surface is wired to.
type Dependencies struct {
	DB    db.Pinger
	Redis *redis.Client

	Gatherer        prometheus.Gatherer
	HTTPMetrics     *metrics.HTTPMetrics
	BusinessMetrics *metrics.BusinessMetrics

	Vendors     vendors.Service
	PublicPages vendors.PublicPages
	Menu        menu.Service
	Links       links.Service
	Payments    payments.Service
	Vouchers    vouchers.Service
	Contacts    contacts.Service
	AdClicks    adclicks.Service
	Hub         hub.Service
	HubAuth     *hub.Authorizer

	IdentityWebhook  *identitywebhook.Service
	IdentityVerifier *identitywebhook.Verifier
	IdentityDedupe   *identitywebhook.IdempotencyGuard
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.HostRewrite(resolver.MainHost(cfg.App.BaseURL)),
	)

	var limiter middleware.WindowLimiter
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	var idempotencyStore redis.IdempotencyStore
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
	}
	idempotent := middleware.Idempotency(idempotencyStore, middleware.DefaultIdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readinessChecks(deps), logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, middleware.RateLimitOptions{
			Scope:   "api",
			Limit:   int64(cfg.RateLimit.Limit),
			Window:  cfg.RateLimit.Window,
			Metrics: deps.BusinessMetrics,
		}, logg))

		r.Get("/public/vendors/{slug}", controllers.PublicPage(deps.PublicPages, logg))
		r.Get("/redirect/apply", controllers.AdRedirect(deps.AdClicks, cfg.App.ApplyURL, logg))
		r.Get("/checkout/paymob/callback", controllers.PaymobCallback(deps.Payments, cfg.App.BaseURL, logg))
		r.Post("/webhooks/identity", identityWebhookHandler(deps, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Identity, logg))

			r.With(idempotent).Post("/checkout/paymob", controllers.Checkout(deps.Payments, logg))
			r.With(idempotent).Post("/voucher/redeem", controllers.VoucherRedeem(deps.Vouchers, logg))

			r.Route("/vendor", func(r chi.Router) {
				r.Get("/me", controllers.VendorMe(deps.Vendors, logg))
				r.Patch("/profile", controllers.VendorUpdateProfile(deps.Vendors, logg))
				r.Post("/downgrade", controllers.VendorDowngrade(deps.Vendors, logg))
				r.Get("/slug-availability", controllers.VendorSlugAvailability(deps.Vendors, logg))
				r.Post("/contact-request", controllers.VendorContactRequest(deps.Contacts, logg))
				r.Post("/onboarding", controllers.VendorOnboarding(deps.Vendors, logg))

				r.Route("/menu", func(r chi.Router) {
					r.Get("/", controllers.MenuList(deps.Menu, logg))
					r.Post("/", controllers.MenuCreate(deps.Menu, logg))
					r.Patch("/{id}", controllers.MenuUpdate(deps.Menu, logg))
					r.Delete("/{id}", controllers.MenuDelete(deps.Menu, logg))
				})
				r.Route("/links", func(r chi.Router) {
					r.Get("/", controllers.LinksList(deps.Links, logg))
					r.Post("/", controllers.LinksCreate(deps.Links, logg))
					r.Patch("/{id}", controllers.LinksUpdate(deps.Links, logg))
					r.Delete("/{id}", controllers.LinksDelete(deps.Links, logg))
				})
			})

			r.Route("/hub", func(r chi.Router) {
				r.Use(middleware.HubAdmin(deps.HubAuth, logg))

				r.Get("/vendors", controllers.HubListVendors(deps.Hub, logg))
				r.Get("/vendors/{id}", controllers.HubGetVendor(deps.Hub, logg))
				r.Patch("/vendors/{id}", controllers.HubSetVendorTier(deps.Hub, logg))
				r.Post("/promo", controllers.HubCreatePromo(deps.Vouchers, logg))
				r.Get("/contact-requests", controllers.HubContactRequests(deps.Contacts, logg))
				r.Get("/vendor-visit", controllers.HubListVisits(deps.Contacts, logg))
				r.Post("/vendor-visit", controllers.HubCreateVisit(deps.Contacts, logg))
				r.Get("/ad-clicks", controllers.HubAdClicks(deps.AdClicks, logg))
			})
		})
	})

	r.Get("/{slug}", controllers.PublicPage(deps.PublicPages, logg))

	return r
}

func readinessChecks(deps Dependencies) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}

// identityWebhookHandler avoids handing typed nil pointers to the controller,
// which would pass its nil-interface checks.
func identityWebhookHandler(deps Dependencies, logg *logger.Logger) http.HandlerFunc {
	if deps.IdentityWebhook == nil || deps.IdentityVerifier == nil || deps.IdentityDedupe == nil {
		return webhookcontrollers.IdentityWebhook(nil, nil, nil, logg)
	}
	return webhookcontrollers.IdentityWebhook(deps.IdentityWebhook, deps.IdentityVerifier, deps.IdentityDedupe, logg)
}
