package entity

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "free"
	SubscriptionPremium SubscriptionType = "premium"
)

type Seller struct {
	ID                   string           `bson:"_id,omitempty"`
	Username             string           `bson:"username"`
	Email                string           `bson:"email"`
	PasswordHash         string           `bson:"password_hash"`
	BusinessName         string           `bson:"business_name"`
	WhatsappNumber       string           `bson:"whatsapp_number"`
	Bio                  string           `bson:"bio,omitempty"`
	ProfilePictureURL    string           `bson:"profile_picture_url,omitempty"`
	Slug                 string           `bson:"slug"`
	Category             string           `bson:"category"`
	Subscription         SubscriptionType `bson:"subscription_type"`
	SubscriptionExpires  *time.Time       `bson:"subscription_expires,omitempty"`
	IsFeatured           bool             `bson:"is_featured"`
	IsActive             bool             `bson:"is_active"`
	IsStaff              bool             `bson:"is_staff"`
	TotalPageViews       int64            `bson:"total_page_views"`
	WeeklyPageViews      int64            `bson:"weekly_page_views"`
	WeeklyWhatsappClicks int64            `bson:"weekly_whatsapp_clicks"`
	LastAnalyticsReset   time.Time        `bson:"last_analytics_reset"`
	CreatedAt            time.Time        `bson:"created_at"`
	UpdatedAt            time.Time        `bson:"updated_at"`
}

func NewSeller(username, email, passwordHash, businessName, whatsappNumber, category string) (*Seller, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	businessName = strings.TrimSpace(businessName)
	whatsappNumber = strings.TrimSpace(whatsappNumber)

	if username == "" || email == "" || passwordHash == "" || businessName == "" || whatsappNumber == "" || category == "" {
		return nil, errors.New("all registration fields are required")
	}
	if !validUsername(username) {
		return nil, errors.New("username can only contain letters, numbers, and underscores")
	}
	if !validEmail(email) {
		return nil, errors.New("invalid email address")
	}

	now := time.Now().UTC()
	return &Seller{
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		BusinessName:       businessName,
		WhatsappNumber:     whatsappNumber,
		Category:           category,
		Subscription:       SubscriptionFree,
		IsActive:           true,
		LastAnalyticsReset: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (s *Seller) IsPremium() bool {
	if s.Subscription != SubscriptionPremium {
		return false
	}
	if s.SubscriptionExpires != nil && time.Now().UTC().After(*s.SubscriptionExpires) {
		return false
	}
	return true
}

// ShowsPoweredByBadge reports whether the catalog page carries the platform badge.
// Only free sellers see it.
func (s *Seller) ShowsPoweredByBadge() bool {
	return !s.IsPremium()
}

func (s *Seller) UpgradeToPremium(duration time.Duration) {
	expires := time.Now().UTC().Add(duration)
	s.Subscription = SubscriptionPremium
	s.SubscriptionExpires = &expires
	s.UpdatedAt = time.Now().UTC()
}

// NeedsWeeklyReset reports whether weekly counters are stale (7+ days old).
func (s *Seller) NeedsWeeklyReset(now time.Time) bool {
	return now.Sub(s.LastAnalyticsReset) >= 7*24*time.Hour
}

func validUsername(username string) bool {
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
