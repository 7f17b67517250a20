package repository

import (
	"context"
	"time"
)

// PasswordResetRepository stores short-lived password reset codes and the
// one-time tokens handed out after a code is verified.
type PasswordResetRepository interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error
	GetResetToken(ctx context.Context, token string) (string, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// SellerCache is a read-through cache for public catalog page lookups.
type SellerCache interface {
	GetBySlug(ctx context.Context, slug string) (string, error)
	SetBySlug(ctx context.Context, slug, sellerID string, ttl time.Duration) error
	DeleteBySlug(ctx context.Context, slug string) error
}
