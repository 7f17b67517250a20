package service

import (
	"context"
	"time"

	"github.com/Realquiid/vendopage/internal/adapter/payment"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) AppendImage(ctx context.Context, listingID string, image entity.ListingImage) error {
	args := m.Called(ctx, listingID, image)
	return args.Error(0)
}

func (m *MockListingRepository) SetFlags(ctx context.Context, id string, isArchived, isSoldOut bool) error {
	args := m.Called(ctx, id, isArchived, isSoldOut)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) IncrementClick(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListActiveBySeller(ctx context.Context, sellerID string, createdAfter time.Time) ([]*entity.Listing, error) {
	args := m.Called(ctx, sellerID, createdAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListRecent(ctx context.Context, limit int64) ([]*entity.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ActiveCountsBySeller(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockListingRepository) DeleteOrphans(ctx context.Context, createdBefore time.Time) (int64, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).(int64), args.Error(1)
}

type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) Create(ctx context.Context, seller *entity.Seller) (string, error) {
	args := m.Called(ctx, seller)
	return args.String(0), args.Error(1)
}

func (m *MockSellerRepository) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByUsername(ctx context.Context, username string) (*entity.Seller, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetBySlug(ctx context.Context, slug string) (*entity.Seller, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByWhatsappNumber(ctx context.Context, number string) (*entity.Seller, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByWhatsappSuffix(ctx context.Context, digits string) (*entity.Seller, error) {
	args := m.Called(ctx, digits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) Update(ctx context.Context, seller *entity.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *MockSellerRepository) IncrementPageViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSellerRepository) IncrementWhatsappClicks(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSellerRepository) ResetWeeklyCounters(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSellerRepository) ListActive(ctx context.Context, filter repository.SellerFilter) ([]*entity.Seller, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) ListRecent(ctx context.Context, limit int64) ([]*entity.Seller, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) TopByWeeklyViews(ctx context.Context, limit int64) ([]*entity.Seller, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) CountBySubscription(ctx context.Context) (map[entity.SubscriptionType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.SubscriptionType]int64), args.Error(1)
}

func (m *MockSellerRepository) PlatformStats(ctx context.Context) (*repository.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PlatformStats), args.Error(1)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, folder, originalFileName string, data []byte) (string, string, error) {
	args := m.Called(ctx, folder, originalFileName, data)
	return args.String(0), args.String(1), args.Error(2)
}

type MockTaskPublisher struct {
	mock.Mock
}

func (m *MockTaskPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockSellerCache struct {
	mock.Mock
}

func (m *MockSellerCache) GetBySlug(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

func (m *MockSellerCache) SetBySlug(ctx context.Context, slug, sellerID string, ttl time.Duration) error {
	args := m.Called(ctx, slug, sellerID, ttl)
	return args.Error(0)
}

func (m *MockSellerCache) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	args := m.Called(ctx, email, code, ttl)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) GetCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordResetRepository) DeleteCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	args := m.Called(ctx, token, email, ttl)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) GetResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordResetRepository) DeleteResetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitializePayment(ctx context.Context, req payment.InitializeRequest) (*payment.InitializeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitializeResponse), args.Error(1)
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, transactionID string) (*payment.VerifyResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerifyResponse), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhookSignature(signature string, payload []byte) bool {
	args := m.Called(signature, payload)
	return args.Bool(0)
}
