package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/google/uuid"
)

// slugify lowercases the name and collapses every non-alphanumeric run into a
// single hyphen.
func slugify(name string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// generateSlug derives a unique catalog slug from the business name, suffixing
// -1, -2, ... on collisions. Names with no usable characters fall back to a
// random seller-<hex> slug.
func generateSlug(ctx context.Context, repo repository.SellerRepository, businessName string) (string, error) {
	base := slugify(businessName)
	if base == "" {
		base = "seller-" + uuid.New().String()[:8]
	}

	slug := base
	for counter := 1; ; counter++ {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug availability: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
