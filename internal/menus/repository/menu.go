package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	menuserrors "laurent/internal/menus/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Menu_pdfs"
)

// activeOrder resolves several active documents in one category: most
// recently updated first, then most recently created.
var activeOrder = bson.D{
	{Key: "updated_at", Value: -1},
	{Key: "created_at", Value: -1},
}

type MenuRepository interface {
	Create(ctx context.Context, doc *model.MenuDocument) error
	FindByID(ctx context.Context, id string) (*model.MenuDocument, error)
	FindByMenuTitle(ctx context.Context, menuTitle string) ([]*model.MenuDocument, error)
	FindActive(ctx context.Context, menuTitle string) (*model.MenuDocument, error)
	FindAllActive(ctx context.Context) ([]*model.MenuDocument, error)
	SetActive(ctx context.Context, id string, active bool) error
	// DeactivateOthers clears the active flag of every document in menuTitle
	// except exceptID. An empty exceptID deactivates all of them.
	DeactivateOthers(ctx context.Context, menuTitle string, exceptID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoMenuRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMenuRepository(cfg *config.Config) MenuRepository {
	return &mongoMenuRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoMenuRepository) Create(ctx context.Context, doc *model.MenuDocument) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create menu document: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMenuRepository) FindByID(ctx context.Context, id string) (*model.MenuDocument, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", menuserrors.ErrInvalidID, id)
	}

	var doc model.MenuDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, menuserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find menu document: %w", err)
	}

	return &doc, nil
}

func (r *mongoMenuRepository) FindByMenuTitle(ctx context.Context, menuTitle string) ([]*model.MenuDocument, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"menu_title": menuTitle}, opts)
}

func (r *mongoMenuRepository) FindActive(ctx context.Context, menuTitle string) (*model.MenuDocument, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"menu_title": menuTitle, "is_active": true}
	opts := options.FindOne().SetSort(activeOrder)

	var doc model.MenuDocument
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, menuserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active menu document: %w", err)
	}

	return &doc, nil
}

func (r *mongoMenuRepository) FindAllActive(ctx context.Context) ([]*model.MenuDocument, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(activeOrder)
	return r.find(ctx, bson.M{"is_active": true}, opts)
}

func (r *mongoMenuRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.MenuDocument, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []*model.MenuDocument{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode menu documents: %w", err)
	}
	return docs, nil
}

func (r *mongoMenuRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", menuserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"is_active":  active,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update menu document: %w", err)
	}
	if result.MatchedCount == 0 {
		return menuserrors.ErrNotFound
	}
	return nil
}

func (r *mongoMenuRepository) DeactivateOthers(ctx context.Context, menuTitle string, exceptID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"menu_title": menuTitle, "is_active": true}
	if exceptID != "" {
		objectID, err := primitive.ObjectIDFromHex(exceptID)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", menuserrors.ErrInvalidID, exceptID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	update := bson.M{
		"$set": bson.M{
			"is_active":  false,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate menu documents: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoMenuRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", menuserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete menu document: %w", err)
	}
	if result.DeletedCount == 0 {
		return menuserrors.ErrNotFound
	}
	return nil
}
