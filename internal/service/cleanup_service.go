package service

import (
	"context"
	"time"

	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	"github.com/Realquiid/vendopage/internal/repository"
)

// CleanupService reclaims listings whose upload task never attached a single
// image: the task crashed, the queue dropped the message, or every retry
// failed without the task reaching its own delete.
type CleanupService interface {
	Sweep(ctx context.Context) (int64, error)
}

type cleanupService struct {
	listingRepo repository.ListingRepository
	graceWindow time.Duration
	metrics     *metrics.Metrics
	log         logger.Logger
}

func NewCleanupService(listingRepo repository.ListingRepository, graceWindow time.Duration, m *metrics.Metrics, log logger.Logger) CleanupService {
	return &cleanupService{
		listingRepo: listingRepo,
		graceWindow: graceWindow,
		metrics:     m,
		log:         log,
	}
}

// Sweep deletes all image-less listings older than the grace window in one
// batch. The window must exceed the upload task's maximum total retry
// duration so a still-retrying task never loses its listing mid-flight.
func (s *cleanupService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.graceWindow)
	deleted, err := s.listingRepo.DeleteOrphans(ctx, cutoff)
	if err != nil {
		s.log.Errorf("cleanup sweep failed: %v", err)
		return 0, err
	}

	if deleted > 0 {
		s.metrics.OrphansDeleted.Add(float64(deleted))
		s.log.Infof("cleanup sweep removed %d listings with no images", deleted)
	}
	return deleted, nil
}
