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

const listingCollectionName = "listings"

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	return &listingRepository{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	res, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	var listing entity.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return &listing, nil
}

func (r *listingRepository) AppendImage(ctx context.Context, listingID string, image entity.ListingImage) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$push": bson.M{"images": image},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to append image to listing %s: %w", listingID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) SetFlags(ctx context.Context, id string, isArchived, isSoldOut bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"is_archived": isArchived,
		"is_sold_out": isSoldOut,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update flags for listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) IncrementClick(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$inc": bson.M{"whatsapp_clicks": 1, "views": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to track click for listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	return r.find(ctx, bson.M{"seller_id": sellerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *listingRepository) ListActiveBySeller(ctx context.Context, sellerID string, createdAfter time.Time) ([]*entity.Listing, error) {
	query := bson.M{
		"seller_id":   sellerID,
		"is_archived": false,
		"created_at":  bson.M{"$gte": createdAfter},
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *listingRepository) ListRecent(ctx context.Context, limit int64) ([]*entity.Listing, error) {
	return r.find(ctx, bson.M{"is_archived": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
}

func (r *listingRepository) ActiveCountsBySeller(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_archived": false, "is_sold_out": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$seller_id", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listing counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		SellerID string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode listing counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SellerID] = row.Count
	}
	return counts, nil
}

func (r *listingRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*entity.Listing, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*entity.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) DeleteOrphans(ctx context.Context, createdBefore time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{
		"created_at": bson.M{"$lt": createdBefore},
		"images":     bson.M{"$size": 0},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned listings: %w", err)
	}
	return res.DeletedCount, nil
}
