package subscription

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateSubscriptionInput) (*model.Subscription, error)
	Get(ctx context.Context, id string, actor auth.UserContext) (*model.Subscription, error)
	UpdateItems(ctx context.Context, input *dto.UpdateItemsInput) (*model.Subscription, error)
	// GenerateOrder returns a nil order, without error, when the subscription
	// is not eligible for a delivery.
	GenerateOrder(ctx context.Context, id string) (*model.Order, error)
	Bill(ctx context.Context, id string) (*model.Payment, error)
	Cancel(ctx context.Context, input *dto.CancelSubscriptionInput) (*model.Subscription, error)

	RunDeliveries(ctx context.Context) (model.BatchResult, error)
	RunBilling(ctx context.Context) (model.BatchResult, error)
}
