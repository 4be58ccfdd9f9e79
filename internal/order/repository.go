package order

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	// Create stores the order and its lines.
	Create(ctx context.Context, o *model.Order) error
	// FindByID loads the order with its lines, locking it inside a transaction.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, o *model.Order) error
}
