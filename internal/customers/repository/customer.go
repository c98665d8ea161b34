package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerserrors "laurent/internal/customers/errors"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Customers"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, id string, customer *model.Customer) error
	Delete(ctx context.Context, id string) error
	// Upsert records a visit for email: visits is incremented and the last
	// visit and name overwritten. Phone is only overwritten when non-empty.
	// A missing customer is created with one visit.
	Upsert(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error)
}

type mongoCustomerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	return &mongoCustomerRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	customer.CreatedAt = now
	customer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return customerserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		customer.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", customerserrors.ErrInvalidID, id)
	}

	var customer model.Customer
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &customer, nil
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "last_visit", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []*model.Customer{}
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}

	return customers, nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, id string, customer *model.Customer) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", customerserrors.ErrInvalidID, id)
	}

	customer.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"visits":     customer.Visits,
			"last_visit": customer.LastVisit,
			"updated_at": customer.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return customerserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.MatchedCount == 0 {
		return customerserrors.ErrNotFound
	}

	return nil
}

func (r *mongoCustomerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", customerserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.DeletedCount == 0 {
		return customerserrors.ErrNotFound
	}

	return nil
}

func (r *mongoCustomerRepository) Upsert(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"name":       name,
		"last_visit": visit,
		"updated_at": now,
	}
	if phone != "" {
		set["phone"] = phone
	}

	update := bson.M{
		"$inc":         bson.M{"visits": 1},
		"$set":         set,
		"$setOnInsert": bson.M{"email": email, "created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var customer model.Customer
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&customer)
	if mongo.IsDuplicateKeyError(err) {
		// Two first visits raced on the unique email index. A transaction is
		// already aborted by the server, so the caller has to rerun it.
		if mongotx.IsSessionContext(ctx) {
			return nil, fmt.Errorf("%w: %w", customerserrors.ErrDuplicateEmail, err)
		}
		err = r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&customer)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return &customer, nil
}
