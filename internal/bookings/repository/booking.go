package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "laurent/internal/bookings/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// TimeCount is the number of confirmed bookings at one time of day.
type TimeCount struct {
	Time  string `bson:"_id"`
	Count int    `bson:"count"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	// FindConfirmedAt returns the confirmed booking at date and time other
	// than excludeID, or nil when the slot is free.
	FindConfirmedAt(ctx context.Context, date time.Time, hhmmss string, excludeID string) (*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	AverageConfirmedGuests(ctx context.Context) (float64, error)
	ConfirmedTimeCounts(ctx context.Context) ([]TimeCount, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindConfirmedAt(ctx context.Context, date time.Time, hhmmss string, excludeID string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"time":   hhmmss,
		"status": model.StatusConfirmed,
	}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check confirmed bookings: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"customer_name":    booking.CustomerName,
			"customer_email":   booking.CustomerEmail,
			"customer_phone":   booking.CustomerPhone,
			"date":             booking.Date,
			"time":             booking.Time,
			"guests":           booking.Guests,
			"table_number":     booking.TableNumber,
			"status":           booking.Status,
			"special_requests": booking.SpecialRequests,
			"updated_at":       booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) AverageConfirmedGuests(ctx context.Context) (float64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.StatusConfirmed}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$guests"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate party sizes: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode party sizes: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

// ConfirmedTimeCounts groups confirmed bookings by time, busiest first. Ties
// are ordered by time of day.
func (r *mongoBookingRepository) ConfirmedTimeCounts(ctx context.Context) ([]TimeCount, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.StatusConfirmed}}},
		{{Key: "$group", Value: bson.M{"_id": "$time", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking times: %w", err)
	}
	defer cursor.Close(ctx)

	counts := []TimeCount{}
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode booking times: %w", err)
	}
	return counts, nil
}
