package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const quoteColumns = `id, client_id, service_id, description, status, requested_price, proposed_price,
            admin_comment, submitted_at, expires_at, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, q *model.Quote) error {
	query := `
        INSERT INTO quotes (` + quoteColumns + `)
        VALUES (:id, :client_id, :service_id, :description, :status, :requested_price, :proposed_price,
            :admin_comment, :submitted_at, :expires_at, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, q)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Quote, error) {
	var q model.Quote
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &q,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`+postgres.ForUpdate(ctx), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *PGRepository) Update(ctx context.Context, q *model.Quote) error {
	query := `
        UPDATE quotes
        SET status = :status,
            proposed_price = :proposed_price,
            admin_comment = :admin_comment,
            submitted_at = :submitted_at,
            expires_at = :expires_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, q)
	return err
}

func (r *PGRepository) ListOverdue(ctx context.Context, at time.Time) ([]string, error) {
	var ids []string
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &ids, `
        SELECT id FROM quotes
        WHERE status IN ($1, $2) AND expires_at < $3
        ORDER BY expires_at`, model.QuoteSubmitted, model.QuoteInReview, at)
	return ids, err
}
