package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	natsadapter "github.com/Realquiid/vendopage/internal/adapter/nats"
	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/nats-io/nats.go"
)

const resultSubject = "listing.images.result"

// UploadConsumer drains upload batches from the queue, runs them through the
// upload task, and requeues retryable failures with a delay. It is the
// scheduler half of the pipeline: the task decides retryable vs terminal, the
// consumer decides when the next attempt runs.
type UploadConsumer struct {
	conn      *nats.Conn
	publisher natsadapter.MessagePublisher
	tasks     service.UploadTaskService
	cfg       config.UploaderConfig
	log       logger.Logger
	sub       *nats.Subscription
}

func NewUploadConsumer(
	conn *nats.Conn,
	publisher natsadapter.MessagePublisher,
	tasks service.UploadTaskService,
	cfg config.UploaderConfig,
	log logger.Logger,
) *UploadConsumer {
	return &UploadConsumer{
		conn:      conn,
		publisher: publisher,
		tasks:     tasks,
		cfg:       cfg,
		log:       log,
	}
}

func (c *UploadConsumer) Start() error {
	sub, err := c.conn.QueueSubscribe(c.cfg.Subject, c.cfg.Queue, c.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.cfg.Subject, err)
	}
	c.sub = sub
	c.log.Infof("upload consumer subscribed to %s (queue %s)", c.cfg.Subject, c.cfg.Queue)
	return nil
}

func (c *UploadConsumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Drain()
}

func (c *UploadConsumer) handle(msg *nats.Msg) {
	var batch entity.UploadBatch
	if err := json.Unmarshal(msg.Data, &batch); err != nil {
		c.log.Errorf("dropping malformed upload batch: %v", err)
		return
	}
	if batch.Attempt < 1 {
		batch.Attempt = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	result, err := c.tasks.Process(ctx, batch)

	var retryable *service.RetryableError
	if errors.As(err, &retryable) {
		c.scheduleRetry(batch)
		return
	}
	if err != nil {
		// Process contracts to return only RetryableError; anything else is a bug.
		c.log.Errorf("upload task returned unexpected error for listing %s: %v", batch.ListingID, err)
		return
	}

	c.publishResult(batch.ListingID, result)
}

func (c *UploadConsumer) scheduleRetry(batch entity.UploadBatch) {
	next := batch
	next.Attempt++
	c.log.Warnf("requeueing listing %s for attempt %d in %s", next.ListingID, next.Attempt, c.cfg.RetryDelay)

	// Fixed-delay redelivery. The full batch is replayed, including images
	// that already made it into the listing on an earlier attempt.
	time.AfterFunc(c.cfg.RetryDelay, func() {
		if err := c.publisher.Publish(context.Background(), c.cfg.Subject, next); err != nil {
			// Lost redelivery; the cleanup sweep reclaims the listing.
			c.log.Errorf("failed to requeue upload batch for listing %s: %v", next.ListingID, err)
		}
	})
}

func (c *UploadConsumer) publishResult(listingID string, result entity.TaskResult) {
	payload := struct {
		ListingID string `json:"listing_id"`
		entity.TaskResult
	}{ListingID: listingID, TaskResult: result}

	if err := c.publisher.Publish(context.Background(), resultSubject, payload); err != nil {
		c.log.Warnf("failed to publish task result for listing %s: %v", listingID, err)
	}
}
