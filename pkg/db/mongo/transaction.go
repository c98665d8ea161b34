package mongo

import (
	"context"
	"fmt"

	apperrors "laurent/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionFunc receives a context that carries the session when the
// manager is transactional. Repositories must pass it through unchanged.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	Transactional() bool
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (m *mongoTransactionManager) Transactional() bool {
	return true
}

// directManager runs the callback without a session. Used against standalone
// servers that reject multi-document transactions.
type directManager struct{}

func NewDirectManager() TransactionManager {
	return directManager{}
}

func (directManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return fn(ctx)
}

func (directManager) Transactional() bool {
	return false
}

// NewManager picks the session-backed manager when transactions are enabled.
func NewManager(client *mongo.Client, transactions bool) TransactionManager {
	if transactions {
		return NewTransactionManager(client)
	}
	return NewDirectManager()
}

// IsSessionContext reports whether ctx is the session context handed out by
// ExecuteTransaction. Repositories skip their own deadlines inside one.
func IsSessionContext(ctx context.Context) bool {
	_, ok := ctx.(mongo.SessionContext)
	return ok
}
