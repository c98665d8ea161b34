package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	autherrors "laurent/internal/auth/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Users"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	SetLastPage(ctx context.Context, id, page string) error
	// Ensure creates the user, or resets role, name and password hash of an
	// existing user with the same username.
	Ensure(ctx context.Context, user *model.User) error
	// DeleteAllExcept removes every user whose username is not keep.
	DeleteAllExcept(ctx context.Context, keep string) (int64, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	return &mongoUserRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", autherrors.ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) SetLastPage(ctx context.Context, id, page string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", autherrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"last_page":  page,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update last page: %w", err)
	}
	if result.MatchedCount == 0 {
		return autherrors.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Ensure(ctx context.Context, user *model.User) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"password":   user.PasswordHash,
			"role":       user.Role,
			"name":       user.Name,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"username":   user.Username,
			"last_page":  "",
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"username": user.Username}, update, opts).Decode(&stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return autherrors.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	*user = stored
	return nil
}

func (r *mongoUserRepository) DeleteAllExcept(ctx context.Context, keep string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"username": bson.M{"$ne": keep}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	return result.DeletedCount, nil
}
