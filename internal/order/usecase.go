package order

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/order/dto"
)

type UseCase interface {
	GetOrder(ctx context.Context, id string, actor auth.UserContext) (*model.Order, error)
	ListOrders(ctx context.Context, actor auth.UserContext) ([]model.Order, error)
	// CancelOrder is idempotent: cancelling a cancelled order returns it
	// unchanged.
	CancelOrder(ctx context.Context, input *dto.CancelOrderInput) (*model.Order, error)
	AdvanceStatus(ctx context.Context, input *dto.AdvanceStatusInput) (*model.Order, error)
}
