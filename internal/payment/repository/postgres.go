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
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, order_id, subscription_id, workshop_id, client_id, transaction_type, amount, status, created_at, updated_at`

// paymentRow is the table shape: the target is spread over three nullable
// foreign keys guarded by a CHECK constraint.
type paymentRow struct {
	ID             string          `db:"id"`
	OrderID        *string         `db:"order_id"`
	SubscriptionID *string         `db:"subscription_id"`
	WorkshopID     *string         `db:"workshop_id"`
	ClientID       string          `db:"client_id"`
	Type           string          `db:"transaction_type"`
	Amount         decimal.Decimal `db:"amount"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func toRow(p *model.Payment) paymentRow {
	orderID, subID, workshopID := p.Target.Columns()
	return paymentRow{
		ID:             p.ID,
		OrderID:        orderID,
		SubscriptionID: subID,
		WorkshopID:     workshopID,
		ClientID:       p.ClientID,
		Type:           string(p.Type),
		Amount:         p.Amount,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r paymentRow) toModel() (*model.Payment, error) {
	target, err := model.TargetFromColumns(r.OrderID, r.SubscriptionID, r.WorkshopID)
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", r.ID, err)
	}
	return &model.Payment{
		BaseModel: model.BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		Target:    target,
		ClientID:  r.ClientID,
		Type:      model.PaymentTargetKind(r.Type),
		Amount:    r.Amount,
		Status:    model.PaymentStatus(r.Status),
	}, nil
}

// targetColumn names the foreign key that holds target.ID.
func targetColumn(t model.PaymentTarget) (string, error) {
	switch t.Kind {
	case model.TargetOrder:
		return "order_id", nil
	case model.TargetSubscription:
		return "subscription_id", nil
	case model.TargetWorkshop:
		return "workshop_id", nil
	}
	return "", fmt.Errorf("unknown payment target kind %q", t.Kind)
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Payment) error {
	if err := p.Target.Validate(); err != nil {
		return err
	}
	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES (:id, :order_id, :subscription_id, :workshop_id, :client_id, :transaction_type, :amount, :status, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, toRow(p))
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var row paymentRow
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &row,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`+postgres.ForUpdate(ctx), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) FindLatest(ctx context.Context, target model.PaymentTarget, clientID string) (*model.Payment, error) {
	col, err := targetColumn(target)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + col + ` = $1`
	args := []interface{}{target.ID}
	if clientID != "" {
		query += ` AND client_id = $2`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1` + postgres.ForUpdate(ctx)

	var row paymentRow
	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) ListByTarget(ctx context.Context, target model.PaymentTarget) ([]model.Payment, error) {
	col, err := targetColumn(target)
	if err != nil {
		return nil, err
	}
	var rows []paymentRow
	err = postgres.Conn(ctx, r.DB).SelectContext(ctx, &rows,
		`SELECT `+paymentColumns+` FROM payments WHERE `+col+` = $1 ORDER BY created_at, id`, target.ID)
	if err != nil {
		return nil, err
	}

	payments := make([]model.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, p *model.Payment) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`, p.Status, p.UpdatedAt, p.ID)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}
