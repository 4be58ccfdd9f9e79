package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// GetOrCreate relies on the unique client_id constraint so concurrent first
// requests end up with the same cart.
func (r *PGRepository) GetOrCreate(ctx context.Context, clientID string) (*model.Cart, error) {
	db := postgres.Conn(ctx, r.DB)
	now := time.Now()
	_, err := db.ExecContext(ctx, `
        INSERT INTO carts (id, client_id, created_at, updated_at)
        VALUES ($1, $2, $3, $3)
        ON CONFLICT (client_id) DO NOTHING
    `, uuid.New().String(), clientID, now)
	if err != nil {
		return nil, err
	}

	var c model.Cart
	err = db.GetContext(ctx, &c,
		`SELECT id, client_id, created_at, updated_at FROM carts WHERE client_id = $1`+postgres.ForUpdate(ctx), clientID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindLine(ctx context.Context, cartID, productID string) (*model.CartLine, error) {
	var l model.CartLine
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &l, `
        SELECT id, cart_id, product_id, quantity, added_at, updated_at
        FROM cart_lines WHERE cart_id = $1 AND product_id = $2`+postgres.ForUpdate(ctx), cartID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) SaveLine(ctx context.Context, line *model.CartLine) error {
	query := `
        INSERT INTO cart_lines (id, cart_id, product_id, quantity, added_at, updated_at)
        VALUES (:id, :cart_id, :product_id, :quantity, :added_at, :updated_at)
        ON CONFLICT (cart_id, product_id)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, line)
	return err
}

func (r *PGRepository) DeleteLine(ctx context.Context, cartID, productID string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	return err
}

func (r *PGRepository) ListLines(ctx context.Context, cartID string) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &lines, `
        SELECT id, cart_id, product_id, quantity, added_at, updated_at
        FROM cart_lines WHERE cart_id = $1 ORDER BY added_at, product_id`, cartID)
	return lines, err
}

func (r *PGRepository) ClearLines(ctx context.Context, cartID string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	return err
}
