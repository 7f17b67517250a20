package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/repository"
)

const (
	maxImagesPerListing = 10
	sellerCacheTTL      = 5 * time.Minute

	// Only stocked storefronts make the home page.
	minListingsForHome = 5
	featuredHomeLimit  = 4
	homeSellerLimit    = 20
)

// TaskPublisher enqueues background work. Satisfied by the NATS publisher.
type TaskPublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

type CreateListingParams struct {
	SellerID    string
	Description string
	Price       *float64
	Images      []entity.ImagePayload
}

type CatalogPage struct {
	Seller   *entity.Seller
	Listings []*entity.Listing
}

type HomeSeller struct {
	Seller       *entity.Seller
	ListingCount int64
}

type HomePage struct {
	Featured []HomeSeller
	Sellers  []HomeSeller
}

type DashboardSummary struct {
	Seller               *entity.Seller
	Listings             []*entity.Listing
	ActiveCount          int
	SoldOutCount         int
	ArchivedCount        int
	WeeklyPageViews      int64
	WeeklyWhatsappClicks int64
	MostViewed           *entity.Listing
}

type ListingService interface {
	// Create persists an image-less listing and enqueues the upload batch;
	// photos arrive asynchronously.
	Create(ctx context.Context, params CreateListingParams) (*entity.Listing, error)
	Archive(ctx context.Context, listingID, sellerID string) error
	Reactivate(ctx context.Context, listingID, sellerID string) error
	MarkSoldOut(ctx context.Context, listingID, sellerID string) error
	MarkAvailable(ctx context.Context, listingID, sellerID string) error
	Delete(ctx context.Context, listingID, sellerID string) error
	TrackWhatsappClick(ctx context.Context, listingID string) error
	// Home lists featured and top storefronts with at least 5 active listings.
	Home(ctx context.Context) (*HomePage, error)
	Catalog(ctx context.Context, slug string) (*CatalogPage, error)
	Dashboard(ctx context.Context, sellerID string) (*DashboardSummary, error)
}

type listingService struct {
	listingRepo   repository.ListingRepository
	sellerRepo    repository.SellerRepository
	sellerCache   repository.SellerCache
	publisher     TaskPublisher
	uploadSubject string
	log           logger.Logger
}

func NewListingService(
	listingRepo repository.ListingRepository,
	sellerRepo repository.SellerRepository,
	sellerCache repository.SellerCache,
	publisher TaskPublisher,
	uploadSubject string,
	log logger.Logger,
) ListingService {
	return &listingService{
		listingRepo:   listingRepo,
		sellerRepo:    sellerRepo,
		sellerCache:   sellerCache,
		publisher:     publisher,
		uploadSubject: uploadSubject,
		log:           log,
	}
}

func (s *listingService) Create(ctx context.Context, params CreateListingParams) (*entity.Listing, error) {
	if len(params.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}
	if len(params.Images) > maxImagesPerListing {
		return nil, fmt.Errorf("maximum %d images per listing", maxImagesPerListing)
	}

	listing, err := entity.NewListing(params.SellerID, params.Description, params.Price)
	if err != nil {
		return nil, err
	}

	id, err := s.listingRepo.Create(ctx, listing)
	if err != nil {
		return nil, err
	}
	listing.ID = id

	batch := entity.UploadBatch{
		ListingID: id,
		Attempt:   1,
		Images:    params.Images,
	}
	if err := s.publisher.Publish(ctx, s.uploadSubject, batch); err != nil {
		// The listing stays behind with zero images; the cleanup sweep
		// reclaims it after the grace window.
		s.log.Errorf("failed to enqueue upload batch for listing %s: %v", id, err)
		return nil, fmt.Errorf("failed to enqueue image upload: %w", err)
	}

	s.log.Infof("listing %s created with %d images queued", id, len(params.Images))
	return listing, nil
}

func (s *listingService) Archive(ctx context.Context, listingID, sellerID string) error {
	listing, err := s.getOwned(ctx, listingID, sellerID)
	if err != nil {
		return err
	}
	return s.listingRepo.SetFlags(ctx, listingID, true, listing.IsSoldOut)
}

func (s *listingService) Reactivate(ctx context.Context, listingID, sellerID string) error {
	if _, err := s.getOwned(ctx, listingID, sellerID); err != nil {
		return err
	}
	// Reactivating also marks the listing available again.
	return s.listingRepo.SetFlags(ctx, listingID, false, false)
}

func (s *listingService) MarkSoldOut(ctx context.Context, listingID, sellerID string) error {
	listing, err := s.getOwned(ctx, listingID, sellerID)
	if err != nil {
		return err
	}
	return s.listingRepo.SetFlags(ctx, listingID, listing.IsArchived, true)
}

func (s *listingService) MarkAvailable(ctx context.Context, listingID, sellerID string) error {
	listing, err := s.getOwned(ctx, listingID, sellerID)
	if err != nil {
		return err
	}
	return s.listingRepo.SetFlags(ctx, listingID, listing.IsArchived, false)
}

func (s *listingService) Delete(ctx context.Context, listingID, sellerID string) error {
	if _, err := s.getOwned(ctx, listingID, sellerID); err != nil {
		return err
	}
	return s.listingRepo.Delete(ctx, listingID)
}

func (s *listingService) getOwned(ctx context.Context, listingID, sellerID string) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		s.log.Warnf("seller %s attempted to modify listing %s owned by %s", sellerID, listingID, listing.SellerID)
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *listingService) TrackWhatsappClick(ctx context.Context, listingID string) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	if err := s.listingRepo.IncrementClick(ctx, listingID); err != nil {
		return err
	}
	return s.sellerRepo.IncrementWhatsappClicks(ctx, listing.SellerID)
}

func (s *listingService) Home(ctx context.Context) (*HomePage, error) {
	counts, err := s.listingRepo.ActiveCountsBySeller(ctx)
	if err != nil {
		return nil, err
	}

	sellers, err := s.sellerRepo.ListActive(ctx, repository.SellerFilter{})
	if err != nil {
		return nil, err
	}

	var featured, regular []HomeSeller
	for _, seller := range sellers {
		count := counts[seller.ID]
		if count < minListingsForHome {
			continue
		}
		entry := HomeSeller{Seller: seller, ListingCount: count}
		if seller.IsFeatured {
			featured = append(featured, entry)
		} else {
			regular = append(regular, entry)
		}
	}

	byCount := func(entries []HomeSeller) func(i, j int) bool {
		return func(i, j int) bool { return entries[i].ListingCount > entries[j].ListingCount }
	}
	sort.SliceStable(featured, byCount(featured))
	sort.SliceStable(regular, byCount(regular))

	if len(featured) > featuredHomeLimit {
		featured = featured[:featuredHomeLimit]
	}
	if len(regular) > homeSellerLimit {
		regular = regular[:homeSellerLimit]
	}
	return &HomePage{Featured: featured, Sellers: regular}, nil
}

func (s *listingService) Catalog(ctx context.Context, slug string) (*CatalogPage, error) {
	seller, err := s.sellerBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !seller.IsActive {
		return nil, ErrSellerNotFound
	}

	if err := s.sellerRepo.IncrementPageViews(ctx, seller.ID); err != nil {
		s.log.Errorf("failed to track page view for seller %s: %v", seller.ID, err)
	}

	since := time.Now().UTC().Add(-entity.ActiveListingWindow)
	listings, err := s.listingRepo.ListActiveBySeller(ctx, seller.ID, since)
	if err != nil {
		return nil, err
	}

	return &CatalogPage{Seller: seller, Listings: listings}, nil
}

func (s *listingService) sellerBySlug(ctx context.Context, slug string) (*entity.Seller, error) {
	if id, err := s.sellerCache.GetBySlug(ctx, slug); err == nil {
		seller, err := s.sellerRepo.GetByID(ctx, id)
		if err == nil {
			return seller, nil
		}
		// Stale cache entry; fall through to the slug lookup.
		_ = s.sellerCache.DeleteBySlug(ctx, slug)
	}

	seller, err := s.sellerRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if err := s.sellerCache.SetBySlug(ctx, slug, seller.ID, sellerCacheTTL); err != nil {
		s.log.Warnf("failed to cache seller slug %s: %v", slug, err)
	}
	return seller, nil
}

func (s *listingService) Dashboard(ctx context.Context, sellerID string) (*DashboardSummary, error) {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	if seller.NeedsWeeklyReset(now) {
		if err := s.sellerRepo.ResetWeeklyCounters(ctx, sellerID, now); err != nil {
			return nil, err
		}
		seller.WeeklyPageViews = 0
		seller.WeeklyWhatsappClicks = 0
		seller.LastAnalyticsReset = now
	}

	listings, err := s.listingRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Seller:               seller,
		Listings:             listings,
		WeeklyPageViews:      seller.WeeklyPageViews,
		WeeklyWhatsappClicks: seller.WeeklyWhatsappClicks,
	}
	for _, l := range listings {
		switch {
		case l.IsArchived:
			summary.ArchivedCount++
		case l.IsSoldOut:
			summary.SoldOutCount++
		default:
			summary.ActiveCount++
		}
		if !l.IsArchived && (summary.MostViewed == nil || l.Views > summary.MostViewed.Views) {
			summary.MostViewed = l
		}
	}
	return summary, nil
}
