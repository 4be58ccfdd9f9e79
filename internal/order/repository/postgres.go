package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, client_id, address, subscription_id, status, total, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	db := postgres.Conn(ctx, r.DB)
	query := `
        INSERT INTO orders (` + orderColumns + `)
        VALUES (:id, :client_id, :address, :subscription_id, :status, :total, :created_at, :updated_at)
    `
	if _, err := db.NamedExecContext(ctx, query, o); err != nil {
		return err
	}

	lineQuery := `
        INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, created_at)
        VALUES (:id, :order_id, :product_id, :quantity, :unit_price, :created_at)
    `
	for i := range o.Lines {
		if _, err := db.NamedExecContext(ctx, lineQuery, &o.Lines[i]); err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	db := postgres.Conn(ctx, r.DB)
	var o model.Order
	err := db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`+postgres.ForUpdate(ctx), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := db.SelectContext(ctx, &o.Lines, `
        SELECT id, order_id, product_id, quantity, unit_price, created_at
        FROM order_lines WHERE order_id = $1 ORDER BY created_at, id`, id); err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	return &o, nil
}

func (r *PGRepository) ListByClient(ctx context.Context, clientID string) ([]model.Order, error) {
	db := postgres.Conn(ctx, r.DB)
	var orders []model.Order
	err := db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil || len(orders) == 0 {
		return orders, err
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}
	query, args, err := sqlx.In(`
        SELECT id, order_id, product_id, quantity, unit_price, created_at
        FROM order_lines WHERE order_id IN (?) ORDER BY created_at, id`, ids)
	if err != nil {
		return nil, err
	}
	var lines []model.OrderLine
	if err := db.SelectContext(ctx, &lines, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	for _, l := range lines {
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return orders, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, o *model.Order) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, o.Status, o.UpdatedAt, o.ID)
	return err
}
