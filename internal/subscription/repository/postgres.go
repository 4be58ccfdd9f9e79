package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, client_id, cadence, start_date, end_date, price, payment_status,
            next_delivery, next_billing, is_active, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Subscription) error {
	query := `
        INSERT INTO subscriptions (` + subscriptionColumns + `)
        VALUES (:id, :client_id, :cadence, :start_date, :end_date, :price, :payment_status,
            :next_delivery, :next_billing, :is_active, :created_at, :updated_at)
    `
	if _, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, s); err != nil {
		return err
	}
	return r.insertItems(ctx, s.Items)
}

func (r *PGRepository) insertItems(ctx context.Context, items []model.SubscriptionItem) error {
	db := postgres.Conn(ctx, r.DB)
	for i := range items {
		if _, err := db.NamedExecContext(ctx, `
            INSERT INTO subscription_items (subscription_id, product_id, quantity)
            VALUES (:subscription_id, :product_id, :quantity)`, &items[i]); err != nil {
			return fmt.Errorf("failed to insert subscription item: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	db := postgres.Conn(ctx, r.DB)
	var s model.Subscription
	err := db.GetContext(ctx, &s,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`+postgres.ForUpdate(ctx), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := db.SelectContext(ctx, &s.Items, `
        SELECT subscription_id, product_id, quantity
        FROM subscription_items WHERE subscription_id = $1 ORDER BY product_id`, id); err != nil {
		return nil, fmt.Errorf("failed to load subscription items: %w", err)
	}
	return &s, nil
}

func (r *PGRepository) Update(ctx context.Context, s *model.Subscription) error {
	query := `
        UPDATE subscriptions
        SET end_date = :end_date,
            price = :price,
            payment_status = :payment_status,
            next_delivery = :next_delivery,
            next_billing = :next_billing,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) ReplaceItems(ctx context.Context, subscriptionID string, items []model.SubscriptionItem) error {
	if _, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM subscription_items WHERE subscription_id = $1`, subscriptionID); err != nil {
		return err
	}
	return r.insertItems(ctx, items)
}

func (r *PGRepository) ListDueForDelivery(ctx context.Context, at time.Time) ([]string, error) {
	var ids []string
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &ids, `
        SELECT id FROM subscriptions
        WHERE is_active = TRUE AND next_delivery <= $1
        ORDER BY next_delivery, created_at`, at)
	return ids, err
}

func (r *PGRepository) ListDueForBilling(ctx context.Context, at time.Time) ([]string, error) {
	var ids []string
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &ids, `
        SELECT id FROM subscriptions
        WHERE is_active = TRUE AND payment_status = $1 AND next_billing <= $2
        ORDER BY next_billing, created_at`, model.SubscriptionPaidMonthly, at)
	return ids, err
}
