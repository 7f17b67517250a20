package http

import (
	"io"
	"net/http"

	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
)

const webhookSignatureHeader = "verif-hash"

type PaymentHandler struct {
	payments service.PaymentService
	log      logger.Logger
}

func NewPaymentHandler(payments service.PaymentService, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

func (h *PaymentHandler) StartUpgrade(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	link, txRef, err := h.payments.StartUpgrade(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"payment_link": link,
		"tx_ref":       txRef,
	})
}

func (h *PaymentHandler) ConfirmUpgrade(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := sellerIDFromContext(r.Context())
	var req struct {
		TransactionID string `json:"transaction_id"`
		TxRef         string `json:"tx_ref"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payments.ConfirmUpgrade(r.Context(), sellerID, req.TransactionID, req.TxRef); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "premium activated"})
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	signature := r.Header.Get(webhookSignatureHeader)
	if err := h.payments.HandleWebhook(r.Context(), signature, payload); err != nil {
		h.log.Warnf("webhook rejected: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
