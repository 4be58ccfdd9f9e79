package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion applies a fractional discount to the products it lists and to every
// product of its category, if it has one.
type Promotion struct {
	BaseModel
	Name       string          `db:"name" json:"name"`
	Discount   decimal.Decimal `db:"discount" json:"discount"`
	StartsAt   time.Time       `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time       `db:"ends_at" json:"ends_at"`
	CategoryID *string         `db:"category_id" json:"category_id"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	ProductIDs []string        `db:"-" json:"product_ids"`
}

// ValidAt reports whether at falls inside [StartsAt, EndsAt).
func (p *Promotion) ValidAt(at time.Time) bool {
	return !at.Before(p.StartsAt) && at.Before(p.EndsAt)
}

func (p *Promotion) Covers(product *Product) bool {
	if p.CategoryID != nil && *p.CategoryID == product.CategoryID {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == product.ID {
			return true
		}
	}
	return false
}

// AppliesTo combines the active flag, the validity window and the scope.
func (p *Promotion) AppliesTo(product *Product, at time.Time) bool {
	return p.IsActive && p.ValidAt(at) && p.Covers(product)
}
