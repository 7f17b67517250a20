package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Realquiid/vendopage/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized becomes a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSellerNotFound),
		errors.Is(err, service.ErrListingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidResetCode),
		errors.Is(err, service.ErrInvalidResetToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrWhatsappTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrImageTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPaymentInitFailed),
		errors.Is(err, service.ErrPaymentNotVerified):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, service.ErrInvalidWebhook):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
