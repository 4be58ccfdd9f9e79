package subscription

import (
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(prices ...string) []PricedItem {
	out := make([]PricedItem, 0, len(prices))
	for _, p := range prices {
		out = append(out, PricedItem{UnitPrice: decimal.RequireFromString(p), Quantity: 1})
	}
	return out
}

func TestComputePrice(t *testing.T) {
	cases := []struct {
		cadence model.Cadence
		items   []PricedItem
		want    string
	}{
		{model.CadenceWeekly, items("500", "300"), "3200.00"},
		{model.CadenceMonthly, items("500", "300"), "800.00"},
		{model.CadenceYearly, items("500", "300"), "8640.00"},
		{model.CadenceMonthly, []PricedItem{{UnitPrice: decimal.RequireFromString("12.50"), Quantity: 3}}, "37.50"},
		{model.CadenceWeekly, nil, "0.00"},
	}
	for _, tc := range cases {
		got := ComputePrice(tc.cadence, tc.items)
		assert.Equal(t, tc.want, got.StringFixed(2), tc.cadence)
	}
}

func TestComputeNextDelivery(t *testing.T) {
	start := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, start.AddDate(0, 0, 7), ComputeNextDelivery(model.CadenceWeekly, start, nil))
	assert.Equal(t, start.AddDate(0, 0, 30), ComputeNextDelivery(model.CadenceMonthly, start, nil))
	assert.Equal(t, start.AddDate(0, 0, 30), ComputeNextDelivery(model.CadenceYearly, start, nil))

	last := start.AddDate(0, 0, 14)
	assert.Equal(t, last.AddDate(0, 0, 7), ComputeNextDelivery(model.CadenceWeekly, start, &last))
}

func TestComputeNextBilling(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, ComputeNextBilling(model.CadenceYearly, start, nil))

	next := ComputeNextBilling(model.CadenceWeekly, start, nil)
	require.NotNil(t, next)
	assert.Equal(t, start.AddDate(0, 0, 30), *next)

	after := ComputeNextBilling(model.CadenceMonthly, start, next)
	require.NotNil(t, after)
	assert.Equal(t, start.AddDate(0, 0, 60), *after)
}
