package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	timeslotserrors "laurent/internal/timeslots/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Time_slot_settings"
)

// TimeSlotRepository stores one policy per date plus a global default keyed by
// a null date. The unique index on date backs both.
type TimeSlotRepository interface {
	FindByDate(ctx context.Context, date *string) (*model.TimeSlotPolicy, error)
	Upsert(ctx context.Context, date *string, slots map[string]bool) error
	CreateDefault(ctx context.Context) (*model.TimeSlotPolicy, error)
}

type mongoTimeSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTimeSlotRepository(cfg *config.Config) TimeSlotRepository {
	return &mongoTimeSlotRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func dateFilter(date *string) bson.M {
	if date == nil {
		return bson.M{"date": nil}
	}
	return bson.M{"date": *date}
}

func (r *mongoTimeSlotRepository) FindByDate(ctx context.Context, date *string) (*model.TimeSlotPolicy, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var policy model.TimeSlotPolicy
	err := r.collection.FindOne(ctx, dateFilter(date)).Decode(&policy)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, timeslotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time slot policy: %w", err)
	}

	return &policy, nil
}

func (r *mongoTimeSlotRepository) Upsert(ctx context.Context, date *string, slots map[string]bool) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"slot_settings": slots,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"date":       date,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, dateFilter(date), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert time slot policy: %w", err)
	}
	return nil
}

// CreateDefault inserts the global default with every canonical slot
// available. Losing a creation race to another request is not an error; the
// winner's record is returned.
func (r *mongoTimeSlotRepository) CreateDefault(ctx context.Context) (*model.TimeSlotPolicy, error) {
	writeCtx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	policy := &model.TimeSlotPolicy{
		Date:         nil,
		SlotSettings: model.DefaultSlotSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := r.collection.InsertOne(writeCtx, policy)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByDate(ctx, nil)
		}
		return nil, fmt.Errorf("failed to create default time slot policy: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		policy.ID = oid.Hex()
	}
	return policy, nil
}
