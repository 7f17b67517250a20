package http

import (
	"net/http"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	admin service.AdminService
	log   logger.Logger
}

func NewAdminHandler(admin service.AdminService, log logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.admin.Overview(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sellers := make([]sellerResponse, 0, len(overview.RecentSellers))
	for _, s := range overview.RecentSellers {
		sellers = append(sellers, toSellerResponse(s))
	}
	top := make([]sellerResponse, 0, len(overview.TopSellersByViews))
	for _, s := range overview.TopSellersByViews {
		top = append(top, toSellerResponse(s))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":               overview.Stats,
		"recent_sellers":      sellers,
		"recent_listings":     toListingResponses(overview.RecentListings),
		"top_sellers":         top,
		"subscription_counts": overview.SubscriptionCounts,
		"monthly_revenue_ngn": overview.MonthlyRevenueNGN,
	})
}

func (h *AdminHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	filter := repository.SellerFilter{
		Search:       r.URL.Query().Get("search"),
		Subscription: entity.SubscriptionType(r.URL.Query().Get("subscription")),
	}
	sellers, err := h.admin.ListSellers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]sellerResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, toSellerResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sellers": out})
}

func (h *AdminHandler) SellerDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.admin.GetSellerDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seller":   toSellerResponse(detail.Seller),
		"listings": toListingResponses(detail.Listings),
	})
}

func (h *AdminHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.SetFeatured(r.Context(), chi.URLParam(r, "id"), req.Featured); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeactivateSeller(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *AdminHandler) ChangeSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subscription string `json:"subscription"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub := entity.SubscriptionType(req.Subscription)
	if sub != entity.SubscriptionFree && sub != entity.SubscriptionPremium {
		writeError(w, http.StatusBadRequest, "subscription must be 'free' or 'premium'")
		return
	}
	if err := h.admin.ChangeSubscription(r.Context(), chi.URLParam(r, "id"), sub); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
