package http

import (
	"net/http"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/go-chi/chi/v5"
)

type SellerHandler struct {
	sellers service.SellerService
	log     logger.Logger
}

func NewSellerHandler(sellers service.SellerService, log logger.Logger) *SellerHandler {
	return &SellerHandler{sellers: sellers, log: log}
}

type sellerResponse struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	BusinessName        string     `json:"business_name"`
	WhatsappNumber      string     `json:"whatsapp_number"`
	Bio                 string     `json:"bio,omitempty"`
	ProfilePictureURL   string     `json:"profile_picture_url,omitempty"`
	Slug                string     `json:"slug"`
	Category            string     `json:"category"`
	Subscription        string     `json:"subscription"`
	SubscriptionExpires *time.Time `json:"subscription_expires,omitempty"`
	IsFeatured          bool       `json:"is_featured"`
	IsPremium           bool       `json:"is_premium"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toSellerResponse(s *entity.Seller) sellerResponse {
	return sellerResponse{
		ID:                  s.ID,
		Username:            s.Username,
		Email:               s.Email,
		BusinessName:        s.BusinessName,
		WhatsappNumber:      s.WhatsappNumber,
		Bio:                 s.Bio,
		ProfilePictureURL:   s.ProfilePictureURL,
		Slug:                s.Slug,
		Category:            s.Category,
		Subscription:        string(s.Subscription),
		SubscriptionExpires: s.SubscriptionExpires,
		IsFeatured:          s.IsFeatured,
		IsPremium:           s.IsPremium(),
		CreatedAt:           s.CreatedAt,
	}
}

type authResponse struct {
	Token  string         `json:"token"`
	Seller sellerResponse `json:"seller"`
}

func (h *SellerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		Password       string `json:"password"`
		BusinessName   string `json:"business_name"`
		WhatsappNumber string `json:"whatsapp_number"`
		Category       string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seller, token, err := h.sellers.Register(r.Context(), service.RegisterParams{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		BusinessName:   req.BusinessName,
		WhatsappNumber: req.WhatsappNumber,
		Category:       req.Category,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Seller: toSellerResponse(seller)})
}

func (h *SellerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seller, token, err := h.sellers.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, Seller: toSellerResponse(seller)})
}

func (h *SellerHandler) Me(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := sellerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	seller, err := h.sellers.GetByID(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerResponse(seller))
}

func (h *SellerHandler) UpdateBusinessInfo(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		BusinessName   string `json:"business_name"`
		Bio            string `json:"bio"`
		Category       string `json:"category"`
		WhatsappNumber string `json:"whatsapp_number"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sellers.UpdateBusinessInfo(r.Context(), sellerID, req.BusinessName, req.Bio, req.Category, req.WhatsappNumber); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *SellerHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sellers.UpdateEmail(r.Context(), sellerID, req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *SellerHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sellers.ChangePassword(r.Context(), sellerID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *SellerHandler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seller, err := h.sellers.UpdateProfilePicture(r.Context(), sellerID, entity.ImagePayload{
		Filename: req.Filename,
		Content:  req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerResponse(seller))
}

func (h *SellerHandler) RemoveProfilePicture(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	if err := h.sellers.RemoveProfilePicture(r.Context(), sellerID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "profile picture removed"})
}

// LookupByPhone serves the WhatsApp bot: it resolves a raw phone number to a
// storefront and its weekly engagement counters.
func (h *SellerHandler) LookupByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	seller, err := h.sellers.LookupByWhatsapp(r.Context(), phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":                     seller.ID,
		"business_name":          seller.BusinessName,
		"slug":                   seller.Slug,
		"weekly_page_views":      seller.WeeklyPageViews,
		"weekly_whatsapp_clicks": seller.WeeklyWhatsappClicks,
	})
}

func (h *SellerHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sellers.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	// Always 200, whether or not the address is registered.
	writeJSON(w, http.StatusOK, map[string]string{"status": "if the email is registered, a reset code has been sent"})
}

func (h *SellerHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.sellers.VerifyResetCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reset_token": token})
}

func (h *SellerHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken  string `json:"reset_token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sellers.ResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}
