package service

import (
	"context"
	"errors"
	"time"

	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/repository"
)

const (
	recentLimit       = 10
	premiumMonthlyFee = 2000
)

type PlatformOverview struct {
	Stats              *repository.PlatformStats
	RecentSellers      []*entity.Seller
	RecentListings     []*entity.Listing
	TopSellersByViews  []*entity.Seller
	SubscriptionCounts map[entity.SubscriptionType]int64
	MonthlyRevenueNGN  int64
}

type SellerDetail struct {
	Seller   *entity.Seller
	Listings []*entity.Listing
}

// AdminService backs the operator dashboard. Access control (staff claim) is
// enforced by the HTTP layer.
type AdminService interface {
	Overview(ctx context.Context) (*PlatformOverview, error)
	ListSellers(ctx context.Context, filter repository.SellerFilter) ([]*entity.Seller, error)
	GetSellerDetail(ctx context.Context, sellerID string) (*SellerDetail, error)
	SetFeatured(ctx context.Context, sellerID string, featured bool) error
	DeactivateSeller(ctx context.Context, sellerID string) error
	ChangeSubscription(ctx context.Context, sellerID string, sub entity.SubscriptionType) error
}

type adminService struct {
	sellerRepo  repository.SellerRepository
	listingRepo repository.ListingRepository
	log         logger.Logger
}

func NewAdminService(sellerRepo repository.SellerRepository, listingRepo repository.ListingRepository, log logger.Logger) AdminService {
	return &adminService{
		sellerRepo:  sellerRepo,
		listingRepo: listingRepo,
		log:         log,
	}
}

func (s *adminService) Overview(ctx context.Context) (*PlatformOverview, error) {
	stats, err := s.sellerRepo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	recentSellers, err := s.sellerRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	recentListings, err := s.listingRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	topSellers, err := s.sellerRepo.TopByWeeklyViews(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	subCounts, err := s.sellerRepo.CountBySubscription(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformOverview{
		Stats:              stats,
		RecentSellers:      recentSellers,
		RecentListings:     recentListings,
		TopSellersByViews:  topSellers,
		SubscriptionCounts: subCounts,
		MonthlyRevenueNGN:  stats.PremiumSellers * premiumMonthlyFee,
	}, nil
}

func (s *adminService) ListSellers(ctx context.Context, filter repository.SellerFilter) ([]*entity.Seller, error) {
	return s.sellerRepo.ListActive(ctx, filter)
}

func (s *adminService) GetSellerDetail(ctx context.Context, sellerID string) (*SellerDetail, error) {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listingRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SellerDetail{Seller: seller, Listings: listings}, nil
}

func (s *adminService) SetFeatured(ctx context.Context, sellerID string, featured bool) error {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return err
	}
	seller.IsFeatured = featured
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return err
	}
	s.log.Infof("seller %s featured=%v", sellerID, featured)
	return nil
}

func (s *adminService) DeactivateSeller(ctx context.Context, sellerID string) error {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return err
	}
	seller.IsActive = false
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return err
	}
	s.log.Warnf("seller %s deactivated", sellerID)
	return nil
}

func (s *adminService) ChangeSubscription(ctx context.Context, sellerID string, sub entity.SubscriptionType) error {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return err
	}

	seller.Subscription = sub
	if sub == entity.SubscriptionPremium {
		expires := time.Now().UTC().Add(premiumDuration)
		seller.SubscriptionExpires = &expires
	} else {
		seller.SubscriptionExpires = nil
	}
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return err
	}
	s.log.Infof("seller %s subscription changed to %s", sellerID, sub)
	return nil
}

func (s *adminService) getSeller(ctx context.Context, sellerID string) (*entity.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}
