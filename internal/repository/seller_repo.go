package repository

import (
	"context"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
)

type SellerFilter struct {
	Search       string
	Subscription entity.SubscriptionType
	Limit        int64
}

type PlatformStats struct {
	TotalSellers        int64
	TotalListings       int64
	TotalPageViews      int64
	TotalWhatsappClicks int64
	PremiumSellers      int64
}

type SellerRepository interface {
	Create(ctx context.Context, seller *entity.Seller) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	GetByUsername(ctx context.Context, username string) (*entity.Seller, error)
	GetByEmail(ctx context.Context, email string) (*entity.Seller, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Seller, error)
	GetByWhatsappNumber(ctx context.Context, number string) (*entity.Seller, error)
	// GetByWhatsappSuffix matches an active seller whose whatsapp number
	// contains the given digits; the first match wins.
	GetByWhatsappSuffix(ctx context.Context, digits string) (*entity.Seller, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, seller *entity.Seller) error
	IncrementPageViews(ctx context.Context, id string) error
	IncrementWhatsappClicks(ctx context.Context, id string) error
	ResetWeeklyCounters(ctx context.Context, id string, at time.Time) error
	ListActive(ctx context.Context, filter SellerFilter) ([]*entity.Seller, error)
	ListRecent(ctx context.Context, limit int64) ([]*entity.Seller, error)
	TopByWeeklyViews(ctx context.Context, limit int64) ([]*entity.Seller, error)
	CountBySubscription(ctx context.Context) (map[entity.SubscriptionType]int64, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}
