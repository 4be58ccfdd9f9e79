package workshop

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateWorkshopInput) (*model.Workshop, error)
	Get(ctx context.Context, id string) (*model.Workshop, error)
	ListAvailable(ctx context.Context) ([]model.Workshop, error)
	Enroll(ctx context.Context, input *dto.EnrollmentInput) (*model.Participant, error)
	Withdraw(ctx context.Context, input *dto.EnrollmentInput) error
	Cancel(ctx context.Context, input *dto.CancelWorkshopInput) (*model.Workshop, error)
	MarkAttended(ctx context.Context, input *dto.MarkAttendedInput) (*model.Participant, error)
}
