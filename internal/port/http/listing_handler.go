package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/go-chi/chi/v5"
)

type ListingHandler struct {
	listings service.ListingService
	log      logger.Logger
}

func NewListingHandler(listings service.ListingService, log logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, log: log}
}

type listingImageResponse struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

type listingResponse struct {
	ID             string                 `json:"id"`
	Description    string                 `json:"description,omitempty"`
	Price          *float64               `json:"price,omitempty"`
	IsArchived     bool                   `json:"is_archived"`
	IsSoldOut      bool                   `json:"is_sold_out"`
	Views          int64                  `json:"views"`
	WhatsappClicks int64                  `json:"whatsapp_clicks"`
	Images         []listingImageResponse `json:"images"`
	PrimaryImage   string                 `json:"primary_image,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toListingResponse(l *entity.Listing) listingResponse {
	resp := listingResponse{
		ID:             l.ID,
		Description:    l.Description,
		Price:          l.Price,
		IsArchived:     l.IsArchived,
		IsSoldOut:      l.IsSoldOut,
		Views:          l.Views,
		WhatsappClicks: l.WhatsappClicks,
		Images:         make([]listingImageResponse, 0, len(l.Images)),
		CreatedAt:      l.CreatedAt,
	}
	for _, img := range l.Images {
		resp.Images = append(resp.Images, listingImageResponse{URL: img.URL, Order: img.Order})
	}
	if primary := l.PrimaryImage(); primary != nil {
		resp.PrimaryImage = primary.URL
	}
	return resp
}

func toListingResponses(listings []*entity.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		Description string                `json:"description"`
		Price       *float64              `json:"price"`
		Images      []entity.ImagePayload `json:"images"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.listings.Create(r.Context(), service.CreateListingParams{
		SellerID:    sellerID,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// 202: the listing exists but its photos are still being uploaded.
	writeJSON(w, http.StatusAccepted, toListingResponse(listing))
}

func (h *ListingHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.withOwned(w, r, h.listings.Archive)
}

func (h *ListingHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.withOwned(w, r, h.listings.Reactivate)
}

func (h *ListingHandler) MarkSoldOut(w http.ResponseWriter, r *http.Request) {
	h.withOwned(w, r, h.listings.MarkSoldOut)
}

func (h *ListingHandler) MarkAvailable(w http.ResponseWriter, r *http.Request) {
	h.withOwned(w, r, h.listings.MarkAvailable)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withOwned(w, r, h.listings.Delete)
}

func (h *ListingHandler) TrackWhatsappClick(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if err := h.listings.TrackWhatsappClick(r.Context(), listingID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "tracked"})
}

type homeSellerResponse struct {
	BusinessName      string `json:"business_name"`
	Slug              string `json:"slug"`
	Category          string `json:"category"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	ListingCount      int64  `json:"listing_count"`
	IsPremium         bool   `json:"is_premium"`
}

func toHomeSellerResponses(entries []service.HomeSeller) []homeSellerResponse {
	out := make([]homeSellerResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, homeSellerResponse{
			BusinessName:      e.Seller.BusinessName,
			Slug:              e.Seller.Slug,
			Category:          e.Seller.Category,
			Bio:               e.Seller.Bio,
			ProfilePictureURL: e.Seller.ProfilePictureURL,
			ListingCount:      e.ListingCount,
			IsPremium:         e.Seller.IsPremium(),
		})
	}
	return out
}

func (h *ListingHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.listings.Home(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"featured_sellers": toHomeSellerResponses(page.Featured),
		"sellers":          toHomeSellerResponses(page.Sellers),
	})
}

func (h *ListingHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := h.listings.Catalog(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seller": map[string]interface{}{
			"business_name":   page.Seller.BusinessName,
			"bio":             page.Seller.Bio,
			"category":        page.Seller.Category,
			"whatsapp_number": page.Seller.WhatsappNumber,
			"slug":            page.Seller.Slug,
			"is_premium":      page.Seller.IsPremium(),
			"powered_by":      page.Seller.ShowsPoweredByBadge(),
		},
		"listings": toListingResponses(page.Listings),
	})
}

func (h *ListingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	summary, err := h.listings.Dashboard(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"seller":                 toSellerResponse(summary.Seller),
		"listings":               toListingResponses(summary.Listings),
		"active_count":           summary.ActiveCount,
		"sold_out_count":         summary.SoldOutCount,
		"archived_count":         summary.ArchivedCount,
		"weekly_page_views":      summary.WeeklyPageViews,
		"weekly_whatsapp_clicks": summary.WeeklyWhatsappClicks,
	}
	if summary.MostViewed != nil {
		mv := toListingResponse(summary.MostViewed)
		resp["most_viewed"] = mv
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ListingHandler) withOwned(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, listingID, sellerID string) error) {
	sellerID, _ := sellerIDFromContext(r.Context())
	listingID := chi.URLParam(r, "id")
	if err := action(r.Context(), listingID, sellerID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
