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

const workshopColumns = `id, name, description, date, duration_minutes, price, total_seats,
            available_seats, is_active, created_at, updated_at`

const participantColumns = `id, workshop_id, user_id, status, registered_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, w *model.Workshop) error {
	query := `
        INSERT INTO workshops (` + workshopColumns + `)
        VALUES (:id, :name, :description, :date, :duration_minutes, :price, :total_seats,
            :available_seats, :is_active, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, w)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Workshop, error) {
	var w model.Workshop
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &w,
		`SELECT `+workshopColumns+` FROM workshops WHERE id = $1`+postgres.ForUpdate(ctx), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Update never writes available_seats.
func (r *PGRepository) Update(ctx context.Context, w *model.Workshop) error {
	query := `
        UPDATE workshops
        SET name = :name,
            description = :description,
            date = :date,
            duration_minutes = :duration_minutes,
            price = :price,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, w)
	return err
}

func (r *PGRepository) ListAvailable(ctx context.Context, from time.Time) ([]model.Workshop, error) {
	var ws []model.Workshop
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &ws, `
        SELECT `+workshopColumns+` FROM workshops
        WHERE is_active = TRUE AND available_seats > 0 AND date >= $1
        ORDER BY date`, from)
	return ws, err
}

func (r *PGRepository) TakeSeat(ctx context.Context, workshopID string) (bool, error) {
	res, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE workshops SET available_seats = available_seats - 1
        WHERE id = $1 AND available_seats > 0`, workshopID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) ReleaseSeat(ctx context.Context, workshopID string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE workshops SET available_seats = available_seats + 1
        WHERE id = $1 AND available_seats < total_seats`, workshopID)
	return err
}

func (r *PGRepository) FindParticipant(ctx context.Context, workshopID, userID string) (*model.Participant, error) {
	var p model.Participant
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &p, `
        SELECT `+participantColumns+` FROM workshop_participants
        WHERE workshop_id = $1 AND user_id = $2`+postgres.ForUpdate(ctx), workshopID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) SaveParticipant(ctx context.Context, p *model.Participant) error {
	query := `
        INSERT INTO workshop_participants (` + participantColumns + `)
        VALUES (:id, :workshop_id, :user_id, :status, :registered_at, :updated_at)
        ON CONFLICT (workshop_id, user_id)
        DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) ListParticipants(ctx context.Context, workshopID string) ([]model.Participant, error) {
	var ps []model.Participant
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &ps, `
        SELECT `+participantColumns+` FROM workshop_participants
        WHERE workshop_id = $1
        ORDER BY user_id`, workshopID)
	return ps, err
}
