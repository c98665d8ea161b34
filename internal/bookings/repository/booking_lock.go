package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "laurent/internal/bookings/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "Booking_locks"
)

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(LockCollectionName),
	}
}

// Create returns ErrSlotLocked while another holder owns the slot.
func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrSlotLocked
		}
		return nil, fmt.Errorf("failed to create booking lock: %w", err)
	}

	return lock, nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to delete booking lock: %w", err)
	}
	return nil
}
