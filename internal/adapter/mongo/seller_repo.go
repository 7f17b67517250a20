package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sellerCollectionName = "sellers"

type sellerRepository struct {
	collection        *mongo.Collection
	listingCollection *mongo.Collection
}

func NewSellerRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.SellerRepository {
	db := client.Database(cfg.Database)
	return &sellerRepository{
		collection:        db.Collection(sellerCollectionName),
		listingCollection: db.Collection(listingCollectionName),
	}
}

func (r *sellerRepository) Create(ctx context.Context, seller *entity.Seller) (string, error) {
	res, err := r.collection.InsertOne(ctx, seller)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", fmt.Errorf("failed to create seller: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *sellerRepository) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid seller ID format: %w", repository.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *sellerRepository) GetByUsername(ctx context.Context, username string) (*entity.Seller, error) {
	return r.findOne(ctx, bson.M{
		"username": primitive.Regex{Pattern: "^" + escapeRegex(username) + "$", Options: "i"},
	})
}

func (r *sellerRepository) GetByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	return r.findOne(ctx, bson.M{
		"email": primitive.Regex{Pattern: "^" + escapeRegex(email) + "$", Options: "i"},
	})
}

func (r *sellerRepository) GetBySlug(ctx context.Context, slug string) (*entity.Seller, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *sellerRepository) GetByWhatsappNumber(ctx context.Context, number string) (*entity.Seller, error) {
	return r.findOne(ctx, bson.M{"whatsapp_number": number})
}

func (r *sellerRepository) GetByWhatsappSuffix(ctx context.Context, digits string) (*entity.Seller, error) {
	return r.findOne(ctx, bson.M{
		"whatsapp_number": primitive.Regex{Pattern: escapeRegex(digits)},
		"is_active":       true,
	})
}

func (r *sellerRepository) findOne(ctx context.Context, filter bson.M) (*entity.Seller, error) {
	var seller entity.Seller
	err := r.collection.FindOne(ctx, filter).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

func (r *sellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}

func (r *sellerRepository) Update(ctx context.Context, seller *entity.Seller) error {
	objID, err := primitive.ObjectIDFromHex(seller.ID)
	if err != nil {
		return fmt.Errorf("invalid seller ID format: %w", repository.ErrUpdateFailed)
	}

	seller.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"email":                seller.Email,
		"password_hash":        seller.PasswordHash,
		"business_name":        seller.BusinessName,
		"whatsapp_number":      seller.WhatsappNumber,
		"bio":                  seller.Bio,
		"profile_picture_url":  seller.ProfilePictureURL,
		"category":             seller.Category,
		"subscription_type":    seller.Subscription,
		"subscription_expires": seller.SubscriptionExpires,
		"is_featured":          seller.IsFeatured,
		"is_active":            seller.IsActive,
		"updated_at":           seller.UpdatedAt,
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update seller %s: %w", seller.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sellerRepository) IncrementPageViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, bson.M{"total_page_views": 1, "weekly_page_views": 1})
}

func (r *sellerRepository) IncrementWhatsappClicks(ctx context.Context, id string) error {
	return r.increment(ctx, id, bson.M{"weekly_whatsapp_clicks": 1})
}

func (r *sellerRepository) increment(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid seller ID format: %w", repository.ErrUpdateFailed)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": fields})
	if err != nil {
		return fmt.Errorf("failed to increment counters for seller %s: %w", id, err)
	}
	return nil
}

func (r *sellerRepository) ResetWeeklyCounters(ctx context.Context, id string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid seller ID format: %w", repository.ErrUpdateFailed)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"weekly_page_views":      0,
		"weekly_whatsapp_clicks": 0,
		"last_analytics_reset":   at,
	}})
	if err != nil {
		return fmt.Errorf("failed to reset weekly counters for seller %s: %w", id, err)
	}
	return nil
}

func (r *sellerRepository) ListActive(ctx context.Context, filter repository.SellerFilter) ([]*entity.Seller, error) {
	query := bson.M{"is_active": true, "is_staff": false}
	if filter.Subscription != "" {
		query["subscription_type"] = filter.Subscription
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: escapeRegex(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"business_name": pattern},
			bson.M{"username": pattern},
			bson.M{"email": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return r.find(ctx, query, opts)
}

func (r *sellerRepository) ListRecent(ctx context.Context, limit int64) ([]*entity.Seller, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"is_active": true, "is_staff": false}, opts)
}

func (r *sellerRepository) TopByWeeklyViews(ctx context.Context, limit int64) ([]*entity.Seller, error) {
	opts := options.Find().SetSort(bson.D{{Key: "weekly_page_views", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"is_active": true, "is_staff": false}, opts)
}

func (r *sellerRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*entity.Seller, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	defer cursor.Close(ctx)

	var sellers []*entity.Seller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("failed to decode sellers: %w", err)
	}
	return sellers, nil
}

func (r *sellerRepository) CountBySubscription(ctx context.Context) (map[entity.SubscriptionType]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_staff": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$subscription_type", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    entity.SubscriptionType `bson:"_id"`
		Count int64                   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode subscription counts: %w", err)
	}

	counts := make(map[entity.SubscriptionType]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (r *sellerRepository) PlatformStats(ctx context.Context) (*repository.PlatformStats, error) {
	stats := &repository.PlatformStats{}

	totalSellers, err := r.collection.CountDocuments(ctx, bson.M{"is_active": true, "is_staff": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}
	stats.TotalSellers = totalSellers

	premium, err := r.collection.CountDocuments(ctx, bson.M{"subscription_type": entity.SubscriptionPremium, "is_staff": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count premium sellers: %w", err)
	}
	stats.PremiumSellers = premium

	totalListings, err := r.listingCollection.CountDocuments(ctx, bson.M{"is_archived": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	stats.TotalListings = totalListings

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_staff": false}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"views":  bson.M{"$sum": "$total_page_views"},
			"clicks": bson.M{"$sum": "$weekly_whatsapp_clicks"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate platform totals: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Views  int64 `bson:"views"`
		Clicks int64 `bson:"clicks"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode platform totals: %w", err)
	}
	if len(totals) > 0 {
		stats.TotalPageViews = totals[0].Views
		stats.TotalWhatsappClicks = totals[0].Clicks
	}
	return stats, nil
}

// escapeRegex quotes regex metacharacters so user input is matched literally.
func escapeRegex(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		for j := 0; j < len(special); j++ {
			if c == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, c)
	}
	return string(out)
}
