package user

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

// Repository reads the accounts managed by the authentication service.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
}
