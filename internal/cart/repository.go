package cart

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	GetOrCreate(ctx context.Context, clientID string) (*model.Cart, error)
	FindLine(ctx context.Context, cartID, productID string) (*model.CartLine, error)
	// SaveLine inserts or replaces the line for (cart, product).
	SaveLine(ctx context.Context, line *model.CartLine) error
	DeleteLine(ctx context.Context, cartID, productID string) error
	ListLines(ctx context.Context, cartID string) ([]model.CartLine, error)
	ClearLines(ctx context.Context, cartID string) error
}
