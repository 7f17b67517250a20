package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockUploadTask struct {
	mock.Mock
}

func (m *MockUploadTask) Process(ctx context.Context, batch entity.UploadBatch) (entity.TaskResult, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(entity.TaskResult), args.Error(1)
}

func testUploaderConfig() config.UploaderConfig {
	return config.UploaderConfig{
		Subject:     "listing.images.upload",
		Queue:       "image-uploaders",
		MaxAttempts: 3,
		RetryDelay:  5 * time.Millisecond,
		Timeout:     time.Second,
	}
}

func newTestConsumer(publisher *MockPublisher, tasks *MockUploadTask) *UploadConsumer {
	return NewUploadConsumer(nil, publisher, tasks, testUploaderConfig(), logger.NewNop())
}

func natsMsg(t *testing.T, batch entity.UploadBatch) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(batch)
	assert.NoError(t, err)
	return &nats.Msg{Subject: "listing.images.upload", Data: data}
}

func TestUploadConsumer_Handle_PublishesResult(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockTasks := new(MockUploadTask)
	consumer := newTestConsumer(mockPublisher, mockTasks)

	batch := entity.UploadBatch{ListingID: "listing1", Attempt: 1}
	result := entity.TaskResult{Success: true, Uploaded: 2}

	mockTasks.On("Process", mock.Anything, batch).Return(result, nil).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.images.result", mock.Anything).Return(nil).Once()

	consumer.handle(natsMsg(t, batch))

	mockTasks.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestUploadConsumer_Handle_MalformedMessageDropped(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockTasks := new(MockUploadTask)
	consumer := newTestConsumer(mockPublisher, mockTasks)

	consumer.handle(&nats.Msg{Subject: "listing.images.upload", Data: []byte("{not json")})

	mockTasks.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadConsumer_Handle_ZeroAttemptNormalized(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockTasks := new(MockUploadTask)
	consumer := newTestConsumer(mockPublisher, mockTasks)

	mockTasks.On("Process", mock.Anything, mock.MatchedBy(func(b entity.UploadBatch) bool {
		return b.Attempt == 1
	})).Return(entity.TaskResult{Success: true}, nil).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.images.result", mock.Anything).Return(nil).Once()

	consumer.handle(natsMsg(t, entity.UploadBatch{ListingID: "listing1", Attempt: 0}))

	mockTasks.AssertExpectations(t)
}

func TestUploadConsumer_Handle_RetryableRequeuesWithNextAttempt(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockTasks := new(MockUploadTask)
	consumer := newTestConsumer(mockPublisher, mockTasks)

	batch := entity.UploadBatch{ListingID: "listing1", Attempt: 1}
	requeued := make(chan entity.UploadBatch, 1)

	mockTasks.On("Process", mock.Anything, batch).
		Return(entity.TaskResult{}, &service.RetryableError{Err: assert.AnError}).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.images.upload", mock.MatchedBy(func(b entity.UploadBatch) bool {
		select {
		case requeued <- b:
		default:
		}
		return b.ListingID == "listing1" && b.Attempt == 2
	})).Return(nil).Once()

	consumer.handle(natsMsg(t, batch))

	select {
	case b := <-requeued:
		assert.Equal(t, 2, b.Attempt)
	case <-time.After(time.Second):
		t.Fatal("batch was not requeued")
	}
	// No result is published for a retried batch.
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, "listing.images.result", mock.Anything)
}
