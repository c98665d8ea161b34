package repository

import (
	"context"
	"fmt"

	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatasetRepository performs bulk maintenance across collections.
type DatasetRepository interface {
	// Clear deletes every document of the collection and reports how many.
	Clear(ctx context.Context, collection string) (int64, error)
	// Strings returns field of every document in the collection.
	Strings(ctx context.Context, collection, field string) ([]string, error)
	// ClearExcept deletes every document whose field differs from keep.
	ClearExcept(ctx context.Context, collection, field, keep string) (int64, error)
}

type mongoDatasetRepository struct {
	cfg *config.Config
}

func NewMongoDatasetRepository(cfg *config.Config) DatasetRepository {
	return &mongoDatasetRepository{cfg: cfg}
}

func (r *mongoDatasetRepository) Clear(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.cfg.Database().Collection(collection).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return result.DeletedCount, nil
}

func (r *mongoDatasetRepository) Strings(ctx context.Context, collection, field string) ([]string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{field: 1})
	cursor, err := r.cfg.Database().Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s.%s: %w", collection, field, err)
	}
	defer cursor.Close(ctx)

	var values []string
	for cursor.Next(ctx) {
		if value, ok := cursor.Current.Lookup(field).StringValueOK(); ok && value != "" {
			values = append(values, value)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", collection, field, err)
	}
	return values, nil
}

func (r *mongoDatasetRepository) ClearExcept(ctx context.Context, collection, field, keep string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.cfg.Database().Collection(collection).DeleteMany(ctx, bson.M{field: bson.M{"$ne": keep}})
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return result.DeletedCount, nil
}
