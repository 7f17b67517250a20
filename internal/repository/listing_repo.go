package repository

import (
	"context"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// AppendImage attaches one image to a listing. Append-only; images are
	// removed only when the whole listing is deleted.
	AppendImage(ctx context.Context, listingID string, image entity.ListingImage) error
	SetFlags(ctx context.Context, id string, isArchived, isSoldOut bool) error
	Delete(ctx context.Context, id string) error
	IncrementClick(ctx context.Context, id string) error
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error)
	ListActiveBySeller(ctx context.Context, sellerID string, createdAfter time.Time) ([]*entity.Listing, error)
	ListRecent(ctx context.Context, limit int64) ([]*entity.Listing, error)
	// ActiveCountsBySeller returns, per seller ID, how many listings are
	// neither archived nor sold out.
	ActiveCountsBySeller(ctx context.Context) (map[string]int64, error)
	// DeleteOrphans removes, in one batch, every listing created before the
	// cutoff that still has zero images. Returns the number deleted.
	DeleteOrphans(ctx context.Context, createdBefore time.Time) (int64, error)
}
