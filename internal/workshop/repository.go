package workshop

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, w *model.Workshop) error
	// FindByID locks the workshop inside a transaction.
	FindByID(ctx context.Context, id string) (*model.Workshop, error)
	Update(ctx context.Context, w *model.Workshop) error
	// ListAvailable returns active workshops dated at or after from with at
	// least one seat left.
	ListAvailable(ctx context.Context, from time.Time) ([]model.Workshop, error)

	// TakeSeat decrements available_seats if one is left and reports whether
	// it did.
	TakeSeat(ctx context.Context, workshopID string) (bool, error)
	ReleaseSeat(ctx context.Context, workshopID string) error

	FindParticipant(ctx context.Context, workshopID, userID string) (*model.Participant, error)
	// SaveParticipant inserts or replaces the row for (workshop, user).
	SaveParticipant(ctx context.Context, p *model.Participant) error
	ListParticipants(ctx context.Context, workshopID string) ([]model.Participant, error)
}
