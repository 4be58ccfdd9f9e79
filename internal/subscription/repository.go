package subscription

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	// Create stores the subscription and its items.
	Create(ctx context.Context, s *model.Subscription) error
	// FindByID loads the subscription with its items, locking it inside a
	// transaction.
	FindByID(ctx context.Context, id string) (*model.Subscription, error)
	// Update writes the scalar fields; items are replaced with ReplaceItems.
	Update(ctx context.Context, s *model.Subscription) error
	ReplaceItems(ctx context.Context, subscriptionID string, items []model.SubscriptionItem) error
	// ListDueForDelivery returns active subscriptions with next_delivery <= at.
	ListDueForDelivery(ctx context.Context, at time.Time) ([]string, error)
	// ListDueForBilling returns active paid_monthly subscriptions with
	// next_billing <= at.
	ListDueForBilling(ctx context.Context, at time.Time) ([]string, error)
}
