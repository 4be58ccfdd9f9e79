package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &u,
		`SELECT id, email, username, role, is_active FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &users,
		`SELECT id, email, username, role, is_active FROM users WHERE role = $1 AND is_active = TRUE ORDER BY email`,
		model.RoleAdmin)
	return users, err
}
