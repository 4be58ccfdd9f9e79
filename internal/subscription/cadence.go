package subscription

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

const cycleDays = 30

var (
	weeklyFactor    = decimal.NewFromInt(4)
	yearlyFactor    = decimal.NewFromInt(12)
	yearlyRebate    = decimal.RequireFromString("0.9")
	priceScale      = int32(2)
	weeklyInterval  = 7 * 24 * time.Hour
	monthlyInterval = cycleDays * 24 * time.Hour
)

// PricedItem is one subscription item with the unit price it is billed at.
type PricedItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// ComputePrice is the price of one billing cycle. Weekly counts four
// deliveries, yearly counts twelve months less 10%, monthly is the raw sum.
func ComputePrice(cadence model.Cadence, items []PricedItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	switch cadence {
	case model.CadenceWeekly:
		sum = sum.Mul(weeklyFactor)
	case model.CadenceYearly:
		sum = sum.Mul(yearlyFactor).Mul(yearlyRebate)
	}
	return sum.Round(priceScale)
}

// ComputeNextDelivery steps from the last delivery, or from start when there
// has been none. Months are 30 days, not calendar months.
func ComputeNextDelivery(cadence model.Cadence, start time.Time, last *time.Time) time.Time {
	from := start
	if last != nil {
		from = *last
	}
	if cadence == model.CadenceWeekly {
		return from.Add(weeklyInterval)
	}
	return from.Add(monthlyInterval)
}

// ComputeNextBilling returns nil for yearly subscriptions, which are paid once
// upfront.
func ComputeNextBilling(cadence model.Cadence, start time.Time, last *time.Time) *time.Time {
	if cadence == model.CadenceYearly {
		return nil
	}
	from := start
	if last != nil {
		from = *last
	}
	next := from.Add(monthlyInterval)
	return &next
}
