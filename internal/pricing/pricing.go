// Package pricing resolves the price a client pays for a product right now.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places of every price the engine returns.
const Scale = 2

// EffectivePrice applies every promotion that covers the product at the given
// time. Discounts stack multiplicatively: price × Π(1 − discount). Rounding
// happens once, on the final amount.
func EffectivePrice(p *model.Product, promotions []model.Promotion, at time.Time) decimal.Decimal {
	price := p.Price
	for i := range promotions {
		promo := &promotions[i]
		if !promo.AppliesTo(p, at) {
			continue
		}
		price = price.Mul(decimal.NewFromInt(1).Sub(clampDiscount(promo.Discount)))
	}
	return price.Round(Scale)
}

func clampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return d
}

type PromotionFinder interface {
	ActivePromotions(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error)
}

type Engine struct {
	promotions PromotionFinder
}

func NewEngine(promotions PromotionFinder) *Engine {
	return &Engine{promotions: promotions}
}

func (e *Engine) Price(ctx context.Context, p *model.Product, at time.Time) (decimal.Decimal, error) {
	promos, err := e.promotions.ActivePromotions(ctx, p.ID, p.CategoryID, at)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load promotions for product %s: %w", p.ID, err)
	}
	return EffectivePrice(p, promos, at), nil
}
