package cart

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/cart/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type UseCase interface {
	GetCart(ctx context.Context, clientID string) (*dto.CartView, error)
	AddLine(ctx context.Context, input *dto.AddLineInput) (*model.CartLine, error)
	// SetQuantity returns a nil line when the new quantity removed it.
	SetQuantity(ctx context.Context, input *dto.SetQuantityInput) (*model.CartLine, error)
	RemoveLine(ctx context.Context, input *dto.RemoveLineInput) error
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error)
}
