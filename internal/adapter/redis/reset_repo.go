package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	resetCodeKeyPrefix  = "pwreset:code:"
	resetTokenKeyPrefix = "pwreset:token:"
)

type passwordResetRepository struct {
	client *redis.Client
}

func NewPasswordResetRepository(client *redis.Client) repository.PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func (r *passwordResetRepository) codeKey(email string) string {
	return resetCodeKeyPrefix + strings.ToLower(email)
}

func (r *passwordResetRepository) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.codeKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset code: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, r.codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get reset code: %w", err)
	}
	return code, nil
}

func (r *passwordResetRepository) DeleteCode(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, r.codeKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetTokenKeyPrefix+token, strings.ToLower(email), ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetResetToken(ctx context.Context, token string) (string, error) {
	email, err := r.client.Get(ctx, resetTokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get reset token: %w", err)
	}
	return email, nil
}

func (r *passwordResetRepository) DeleteResetToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, resetTokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
