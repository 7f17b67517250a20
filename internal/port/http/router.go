package http

import (
	"net/http"

	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Sellers  *SellerHandler
	Listings *ListingHandler
	Admin    *AdminHandler
	Payments *PaymentHandler
}

// NewRouter assembles the public API. The catalog route is registered last:
// it matches any top-level slug, so everything else must take precedence.
func NewRouter(h Handlers, jwtSecret string, m *metrics.Metrics, registry *prometheus.Registry, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CountRequests(m))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Sellers.Register)
		r.Post("/login", h.Sellers.Login)
		r.Post("/password-reset/request", h.Sellers.RequestPasswordReset)
		r.Post("/password-reset/verify", h.Sellers.VerifyResetCode)
		r.Post("/password-reset/complete", h.Sellers.ResetPassword)

		// Public engagement tracking, fired from catalog pages.
		r.Post("/listings/{id}/track-whatsapp", h.Listings.TrackWhatsappClick)

		// Vendor lookup for the WhatsApp bot.
		r.Get("/vendors/by-phone/{phone}", h.Sellers.LookupByPhone)

		// Payment provider callback, authenticated by signature instead of JWT.
		r.Post("/payment/webhook", h.Payments.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(jwtSecret, log))

			r.Get("/me", h.Sellers.Me)
			r.Get("/dashboard", h.Listings.Dashboard)

			r.Put("/settings/business", h.Sellers.UpdateBusinessInfo)
			r.Put("/settings/email", h.Sellers.UpdateEmail)
			r.Put("/settings/password", h.Sellers.ChangePassword)
			r.Put("/settings/profile-picture", h.Sellers.UpdateProfilePicture)
			r.Delete("/settings/profile-picture", h.Sellers.RemoveProfilePicture)

			r.Post("/listings", h.Listings.Create)
			r.Post("/listings/{id}/archive", h.Listings.Archive)
			r.Post("/listings/{id}/reactivate", h.Listings.Reactivate)
			r.Post("/listings/{id}/sold-out", h.Listings.MarkSoldOut)
			r.Post("/listings/{id}/available", h.Listings.MarkAvailable)
			r.Delete("/listings/{id}", h.Listings.Delete)

			r.Post("/payment/upgrade", h.Payments.StartUpgrade)
			r.Post("/payment/confirm", h.Payments.ConfirmUpgrade)

			r.Route("/admin", func(r chi.Router) {
				r.Use(StaffOnly)
				r.Get("/overview", h.Admin.Overview)
				r.Get("/sellers", h.Admin.ListSellers)
				r.Get("/sellers/{id}", h.Admin.SellerDetail)
				r.Post("/sellers/{id}/feature", h.Admin.SetFeatured)
				r.Post("/sellers/{id}/deactivate", h.Admin.Deactivate)
				r.Post("/sellers/{id}/subscription", h.Admin.ChangeSubscription)
			})
		})
	})

	// Public pages: the homepage and vendopage.com/<slug> storefronts.
	r.Get("/", h.Listings.Home)
	r.Get("/{slug}", h.Listings.Catalog)

	return r
}
