package repository

import (
	"context"
	"fmt"
	"time"

	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Settings"
)

type SettingsRepository interface {
	// Get returns the singleton, creating it with defaults on first read.
	Get(ctx context.Context) (*model.Settings, error)
	// Update writes the fields present in update, creating the singleton if
	// needed. Absent fields keep their stored or default value.
	Update(ctx context.Context, update *model.SettingsUpdate) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoSettingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": defaultFields(nil, time.Now().UTC().Truncate(time.Millisecond))}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var settings model.Settings
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": model.SettingsID}, update, opts).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

func (r *mongoSettingsRepository) Update(ctx context.Context, update *model.SettingsUpdate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := updateFields(update)
	set["updated_at"] = now

	doc := bson.M{
		"$set":         set,
		"$setOnInsert": defaultFields(set, now),
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": model.SettingsID}, doc, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

func updateFields(u *model.SettingsUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["restaurant_name"] = *u.Name
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.MaxPartySize != nil {
		set["max_party_size"] = *u.MaxPartySize
	}
	if u.BookingAdvanceDays != nil {
		set["booking_advance_days"] = *u.BookingAdvanceDays
	}
	if u.TableCount != nil {
		set["table_count"] = *u.TableCount
	}
	if u.OperatingHours != nil {
		set["operating_hours"] = *u.OperatingHours
	}
	return set
}

// defaultFields is the $setOnInsert document. Keys already in set are left
// out because Mongo rejects an update touching the same path twice.
func defaultFields(set bson.M, now time.Time) bson.M {
	d := model.DefaultSettings()
	fields := bson.M{
		"restaurant_name":      d.RestaurantName,
		"address":              d.Address,
		"phone":                d.Phone,
		"max_party_size":       d.MaxPartySize,
		"booking_advance_days": d.BookingAdvanceDays,
		"table_count":          d.TableCount,
		"operating_hours":      d.OperatingHours,
		"created_at":           now,
		"updated_at":           now,
	}
	for key := range set {
		delete(fields, key)
	}
	return fields
}
