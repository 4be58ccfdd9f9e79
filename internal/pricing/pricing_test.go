package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

func promo(discount string, productIDs ...string) model.Promotion {
	return model.Promotion{
		Discount:   decimal.RequireFromString(discount),
		StartsAt:   now.Add(-24 * time.Hour),
		EndsAt:     now.Add(24 * time.Hour),
		IsActive:   true,
		ProductIDs: productIDs,
	}
}

func product(price string) *model.Product {
	return &model.Product{BaseModel: model.BaseModel{ID: "p-1"}, CategoryID: "bouquets", Price: decimal.RequireFromString(price)}
}

func TestEffectivePriceStacksMultiplicatively(t *testing.T) {
	got := EffectivePrice(product("1000"), []model.Promotion{promo("0.20", "p-1"), promo("0.10", "p-1")}, now)
	assert.Equal(t, "720.00", got.StringFixed(2))
}

func TestEffectivePriceRoundsOnceAtTheEnd(t *testing.T) {
	// Rounding after every step would give 995.00, 990.03, 985.08.
	promos := []model.Promotion{promo("0.005", "p-1"), promo("0.005", "p-1"), promo("0.005", "p-1")}
	got := EffectivePrice(product("1000"), promos, now)
	assert.Equal(t, "985.07", got.StringFixed(2))
}

func TestEffectivePriceIgnoresInapplicablePromotions(t *testing.T) {
	expired := promo("0.5", "p-1")
	expired.EndsAt = now
	inactive := promo("0.5", "p-1")
	inactive.IsActive = false
	elsewhere := promo("0.5", "p-2")
	cat := "bouquets"
	byCategory := promo("0.25")
	byCategory.CategoryID = &cat

	got := EffectivePrice(product("80"), []model.Promotion{expired, inactive, elsewhere, byCategory}, now)
	assert.Equal(t, "60.00", got.StringFixed(2))
}

func TestEffectivePriceWithoutPromotions(t *testing.T) {
	assert.Equal(t, "12.50", EffectivePrice(product("12.5"), nil, now).StringFixed(2))
}

func TestEffectivePriceClampsDiscount(t *testing.T) {
	got := EffectivePrice(product("50"), []model.Promotion{promo("1.5", "p-1")}, now)
	assert.True(t, got.IsZero())
}

type finderFunc func(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error)

func (f finderFunc) ActivePromotions(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error) {
	return f(ctx, productID, categoryID, at)
}

func TestEngineLoadsPromotions(t *testing.T) {
	var gotProduct, gotCategory string
	engine := NewEngine(finderFunc(func(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error) {
		gotProduct, gotCategory = productID, categoryID
		return []model.Promotion{promo("0.10", "p-1")}, nil
	}))

	price, err := engine.Price(context.Background(), product("200"), now)
	require.NoError(t, err)
	assert.Equal(t, "180.00", price.StringFixed(2))
	assert.Equal(t, "p-1", gotProduct)
	assert.Equal(t, "bouquets", gotCategory)

	failing := NewEngine(finderFunc(func(context.Context, string, string, time.Time) ([]model.Promotion, error) {
		return nil, errors.New("db down")
	}))
	_, err = failing.Price(context.Background(), product("200"), now)
	assert.Error(t, err)
}
