package payment

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	// FindLatest returns the most recent payment for target. An empty clientID
	// matches any client.
	FindLatest(ctx context.Context, target model.PaymentTarget, clientID string) (*model.Payment, error)
	ListByTarget(ctx context.Context, target model.PaymentTarget) ([]model.Payment, error)
	UpdateStatus(ctx context.Context, p *model.Payment) error
	Delete(ctx context.Context, id string) error
}
