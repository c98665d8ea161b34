package mongo

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"laurent/internal/migrations/mongo/validators"
	"laurent/pkg/logger"
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer_email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{
			// One confirmed reservation per slot.
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetName("uniq_confirmed_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "confirmed"}),
		},
	}

	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	CustomersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_visit", Value: -1}}},
	}

	MenuDocumentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "menu_title", Value: 1}, {Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "menu_title", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	TimeSlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
)

func collections() map[string]collectionDef {
	return map[string]collectionDef{
		"Bookings":           {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		"Booking_locks":      {Indexes: BookingLocksIndexes, Validator: validators.BookingLockValidator},
		"Customers":          {Indexes: CustomersIndexes, Validator: validators.CustomerValidator},
		"Menu_pdfs":          {Indexes: MenuDocumentsIndexes, Validator: validators.MenuDocumentValidator},
		"Time_slot_settings": {Indexes: TimeSlotsIndexes, Validator: validators.TimeSlotValidator},
		"Users":              {Indexes: UsersIndexes, Validator: validators.UserValidator},
		"Settings":           {Validator: validators.SettingsValidator},
	}
}

// CollectionNames lists every collection the migration manages, sorted.
func CollectionNames() []string {
	defs := collections()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	defs := collections()
	for _, name := range CollectionNames() {
		def := defs[name]
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
