package entity

import (
	"errors"
	"time"
)

const ActiveListingWindow = 30 * 24 * time.Hour

type ListingImage struct {
	URL       string    `bson:"url"`
	ObjectKey string    `bson:"object_key"`
	Order     int       `bson:"order"`
	CreatedAt time.Time `bson:"created_at"`
}

type Listing struct {
	ID             string         `bson:"_id,omitempty"`
	SellerID       string         `bson:"seller_id"`
	Description    string         `bson:"description,omitempty"`
	Price          *float64       `bson:"price,omitempty"`
	IsArchived     bool           `bson:"is_archived"`
	IsSoldOut      bool           `bson:"is_sold_out"`
	Views          int64          `bson:"views"`
	WhatsappClicks int64          `bson:"whatsapp_clicks"`
	Images         []ListingImage `bson:"images"`
	CreatedAt      time.Time      `bson:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at"`
}

func NewListing(sellerID, description string, price *float64) (*Listing, error) {
	if sellerID == "" {
		return nil, errors.New("seller ID cannot be empty")
	}
	if price != nil && *price < 0 {
		return nil, errors.New("price cannot be negative")
	}

	now := time.Now().UTC()
	return &Listing{
		SellerID:    sellerID,
		Description: description,
		Price:       price,
		Images:      []ListingImage{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (l *Listing) IsExpired(now time.Time) bool {
	return now.After(l.CreatedAt.Add(ActiveListingWindow))
}

func (l *Listing) IsVisible(now time.Time) bool {
	return !l.IsArchived && !l.IsExpired(now)
}

// PrimaryImage returns the image with the lowest display order, ties broken by
// creation time. Nil when the listing has no images yet.
func (l *Listing) PrimaryImage() *ListingImage {
	if len(l.Images) == 0 {
		return nil
	}
	primary := &l.Images[0]
	for i := 1; i < len(l.Images); i++ {
		img := &l.Images[i]
		if img.Order < primary.Order ||
			(img.Order == primary.Order && img.CreatedAt.Before(primary.CreatedAt)) {
			primary = img
		}
	}
	return primary
}
