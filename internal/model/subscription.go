package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cadence string

const (
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

func (c Cadence) Valid() bool {
	return c == CadenceWeekly || c == CadenceMonthly || c == CadenceYearly
}

type SubscriptionPaymentStatus string

const (
	SubscriptionUnpaid      SubscriptionPaymentStatus = "unpaid"
	SubscriptionPaidInFull  SubscriptionPaymentStatus = "paid_in_full"
	SubscriptionPaidMonthly SubscriptionPaymentStatus = "paid_monthly"
)

type Subscription struct {
	BaseModel
	ClientID      string                    `db:"client_id" json:"client_id"`
	Cadence       Cadence                   `db:"cadence" json:"cadence"`
	StartDate     time.Time                 `db:"start_date" json:"start_date"`
	EndDate       *time.Time                `db:"end_date" json:"end_date"`
	Price         decimal.Decimal           `db:"price" json:"price"`
	PaymentStatus SubscriptionPaymentStatus `db:"payment_status" json:"payment_status"`
	NextDelivery  *time.Time                `db:"next_delivery" json:"next_delivery"`
	NextBilling   *time.Time                `db:"next_billing" json:"next_billing"`
	IsActive      bool                      `db:"is_active" json:"is_active"`
	Items         []SubscriptionItem        `db:"-" json:"items"`
}

// Ended reports whether the optional end date is behind at.
func (s *Subscription) Ended(at time.Time) bool {
	return s.EndDate != nil && at.After(*s.EndDate)
}

type SubscriptionItem struct {
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`
	ProductID      string `db:"product_id" json:"product_id"`
	Quantity       int    `db:"quantity" json:"quantity"`
}
