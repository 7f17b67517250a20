package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	"github.com/Realquiid/vendopage/internal/repository"
)

const listingPhotoFolder = "listings"

// RetryableError marks an orchestration-level failure that the queue consumer
// should redeliver with a backoff. Everything else a task returns is terminal.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable upload failure: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// ImageStorage is the object-store dependency of the upload task.
type ImageStorage interface {
	Upload(ctx context.Context, folder, originalFileName string, data []byte) (url, objectKey string, err error)
}

type UploadTaskService interface {
	// Process runs one upload batch to a terminal state. A non-nil error is
	// always a *RetryableError; every other outcome is reported in the result.
	Process(ctx context.Context, batch entity.UploadBatch) (entity.TaskResult, error)
}

type uploadTaskService struct {
	listingRepo repository.ListingRepository
	storage     ImageStorage
	maxAttempts int
	metrics     *metrics.Metrics
	log         logger.Logger
}

func NewUploadTaskService(
	listingRepo repository.ListingRepository,
	storage ImageStorage,
	maxAttempts int,
	m *metrics.Metrics,
	log logger.Logger,
) UploadTaskService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &uploadTaskService{
		listingRepo: listingRepo,
		storage:     storage,
		maxAttempts: maxAttempts,
		metrics:     m,
		log:         log,
	}
}

func (s *uploadTaskService) Process(ctx context.Context, batch entity.UploadBatch) (entity.TaskResult, error) {
	log := s.log.With("listing_id", batch.ListingID, "attempt", batch.Attempt, "batch_size", len(batch.Images))
	log.Info("upload task started")

	_, err := s.listingRepo.GetByID(ctx, batch.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Retrying cannot resurrect a deleted listing.
			log.Warn("listing not found, dropping batch")
			s.metrics.UploadTasks.WithLabelValues("not_found").Inc()
			return entity.TaskResult{Success: false, Error: "listing not found"}, nil
		}
		return s.retryOrGiveUp(ctx, batch, log, err)
	}

	uploaded := 0
	failed := 0
	for _, img := range batch.Images {
		if err := s.uploadOne(ctx, batch.ListingID, img); err != nil {
			// One bad photo must not sink the rest of the batch.
			failed++
			s.metrics.ImagesFailed.Inc()
			log.Warnf("image %d (%s) failed: %v", img.Order, img.Filename, err)
			continue
		}
		uploaded++
		s.metrics.ImagesUploaded.Inc()
	}

	if uploaded == 0 {
		log.Error("all images failed, deleting listing")
		s.deleteListing(ctx, batch.ListingID, log)
		s.metrics.UploadTasks.WithLabelValues("total_failure").Inc()
		return entity.TaskResult{
			Success: false,
			Failed:  failed,
			Error:   "all images failed to upload",
		}, nil
	}

	outcome := "success"
	if failed > 0 {
		outcome = "partial_success"
	}
	s.metrics.UploadTasks.WithLabelValues(outcome).Inc()
	log.Infof("upload task finished: %d uploaded, %d failed", uploaded, failed)
	return entity.TaskResult{Success: true, Uploaded: uploaded, Failed: failed}, nil
}

func (s *uploadTaskService) uploadOne(ctx context.Context, listingID string, img entity.ImagePayload) error {
	data, err := base64.StdEncoding.DecodeString(img.Content)
	if err != nil {
		return fmt.Errorf("failed to decode image payload: %w", err)
	}

	url, objectKey, err := s.storage.Upload(ctx, listingPhotoFolder, img.Filename, data)
	if err != nil {
		return err
	}

	return s.listingRepo.AppendImage(ctx, listingID, entity.ListingImage{
		URL:       url,
		ObjectKey: objectKey,
		Order:     img.Order,
		CreatedAt: time.Now().UTC(),
	})
}

// retryOrGiveUp handles orchestration failures: under the attempt bound the
// batch is handed back for redelivery, otherwise the orphaned listing is
// removed and the task ends in failure.
func (s *uploadTaskService) retryOrGiveUp(ctx context.Context, batch entity.UploadBatch, log logger.Logger, cause error) (entity.TaskResult, error) {
	if batch.Attempt < s.maxAttempts {
		log.Warnf("orchestration failure, scheduling retry: %v", cause)
		s.metrics.UploadTasks.WithLabelValues("retry_scheduled").Inc()
		return entity.TaskResult{}, &RetryableError{Err: cause}
	}

	log.Errorf("max retries exceeded, deleting listing: %v", cause)
	s.deleteListing(ctx, batch.ListingID, log)
	s.metrics.UploadTasks.WithLabelValues("max_retries").Inc()
	return entity.TaskResult{Success: false, Error: "max retries exceeded"}, nil
}

func (s *uploadTaskService) deleteListing(ctx context.Context, id string, log logger.Logger) {
	err := s.listingRepo.Delete(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		// The cleanup sweep will reclaim the listing later.
		log.Errorf("failed to delete listing after upload failure: %v", err)
	}
}
