package quote

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, q *model.Quote) error
	// FindByID locks the quote inside a transaction.
	FindByID(ctx context.Context, id string) (*model.Quote, error)
	Update(ctx context.Context, q *model.Quote) error
	// ListOverdue returns submitted or in-review quotes whose expiry is
	// before at.
	ListOverdue(ctx context.Context, at time.Time) ([]string, error)
}
