package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Realquiid/vendopage/internal/adapter/payment"
	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/google/uuid"
)

const (
	premiumPriceNGN = "2000.00"
	premiumDuration = 30 * 24 * time.Hour
	txRefPrefix     = "VDP"
)

var (
	ErrPaymentInitFailed  = errors.New("payment initialization failed")
	ErrPaymentNotVerified = errors.New("payment verification failed")
	ErrInvalidWebhook     = errors.New("invalid webhook signature")
)

// PaymentGateway is the outbound payment-provider dependency.
type PaymentGateway interface {
	InitializePayment(ctx context.Context, req payment.InitializeRequest) (*payment.InitializeResponse, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*payment.VerifyResponse, error)
	VerifyWebhookSignature(signature string, payload []byte) bool
}

type PaymentService interface {
	// StartUpgrade initializes a hosted premium payment and returns the
	// provider checkout link plus the transaction reference to verify later.
	StartUpgrade(ctx context.Context, sellerID string) (link, txRef string, err error)
	ConfirmUpgrade(ctx context.Context, sellerID, transactionID, txRef string) error
	HandleWebhook(ctx context.Context, signature string, payload []byte) error
}

type paymentService struct {
	sellerRepo repository.SellerRepository
	gateway    PaymentGateway
	cfg        config.PaymentConfig
	metrics    *metrics.Metrics
	log        logger.Logger
}

func NewPaymentService(
	sellerRepo repository.SellerRepository,
	gateway PaymentGateway,
	cfg config.PaymentConfig,
	m *metrics.Metrics,
	log logger.Logger,
) PaymentService {
	return &paymentService{
		sellerRepo: sellerRepo,
		gateway:    gateway,
		cfg:        cfg,
		metrics:    m,
		log:        log,
	}
}

func (s *paymentService) StartUpgrade(ctx context.Context, sellerID string) (string, string, error) {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrSellerNotFound
		}
		return "", "", err
	}

	txRef := fmt.Sprintf("%s-%s-%s", txRefPrefix, seller.ID, uuid.New().String()[:8])
	resp, err := s.gateway.InitializePayment(ctx, payment.InitializeRequest{
		TxRef:       txRef,
		Amount:      premiumPriceNGN,
		Currency:    "NGN",
		RedirectURL: s.cfg.RedirectURL,
		Customer: payment.Customer{
			Email: seller.Email,
			Name:  seller.BusinessName,
		},
	})
	if err != nil {
		s.metrics.PaymentAttempts.WithLabelValues("init_error").Inc()
		return "", "", fmt.Errorf("%w: %v", ErrPaymentInitFailed, err)
	}
	if resp.Status != "success" || resp.Data.Link == "" {
		s.metrics.PaymentAttempts.WithLabelValues("init_rejected").Inc()
		return "", "", ErrPaymentInitFailed
	}

	s.metrics.PaymentAttempts.WithLabelValues("initialized").Inc()
	s.log.Infof("premium payment initialized for seller %s (tx_ref %s)", seller.ID, txRef)
	return resp.Data.Link, txRef, nil
}

func (s *paymentService) ConfirmUpgrade(ctx context.Context, sellerID, transactionID, txRef string) error {
	resp, err := s.gateway.VerifyTransaction(ctx, transactionID)
	if err != nil {
		s.metrics.PaymentAttempts.WithLabelValues("verify_error").Inc()
		return fmt.Errorf("%w: %v", ErrPaymentNotVerified, err)
	}
	if resp.Status != "success" || resp.Data.Status != "successful" || resp.Data.TxRef != txRef {
		s.metrics.PaymentAttempts.WithLabelValues("verify_rejected").Inc()
		return ErrPaymentNotVerified
	}

	if err := s.upgradeSeller(ctx, sellerID); err != nil {
		return err
	}
	s.metrics.PaymentAttempts.WithLabelValues("completed").Inc()
	return nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, signature string, payload []byte) error {
	if !s.gateway.VerifyWebhookSignature(signature, payload) {
		s.metrics.PaymentAttempts.WithLabelValues("webhook_rejected").Inc()
		return ErrInvalidWebhook
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			TxRef  string `json:"tx_ref"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	if event.Event != "charge.completed" || event.Data.Status != "successful" {
		s.log.Debugf("ignoring webhook event %s", event.Event)
		return nil
	}

	sellerID, ok := sellerIDFromTxRef(event.Data.TxRef)
	if !ok {
		s.log.Warnf("webhook with unrecognized tx_ref %q", event.Data.TxRef)
		return nil
	}

	if err := s.upgradeSeller(ctx, sellerID); err != nil {
		return err
	}
	s.metrics.PaymentAttempts.WithLabelValues("webhook_completed").Inc()
	s.log.Infof("premium upgrade applied via webhook for seller %s", sellerID)
	return nil
}

func (s *paymentService) upgradeSeller(ctx context.Context, sellerID string) error {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSellerNotFound
		}
		return err
	}
	seller.UpgradeToPremium(premiumDuration)
	return s.sellerRepo.Update(ctx, seller)
}

// sellerIDFromTxRef parses references of the form VDP-<sellerID>-<nonce>.
func sellerIDFromTxRef(txRef string) (string, bool) {
	parts := strings.Split(txRef, "-")
	if len(parts) != 3 || parts[0] != txRefPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
