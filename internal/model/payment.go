package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentTargetKind string

const (
	TargetOrder        PaymentTargetKind = "order"
	TargetSubscription PaymentTargetKind = "subscription"
	TargetWorkshop     PaymentTargetKind = "workshop"
)

// PaymentTarget is the one entity a payment is linked to.
type PaymentTarget struct {
	Kind PaymentTargetKind `json:"kind"`
	ID   string            `json:"id"`
}

func ForOrder(id string) PaymentTarget { return PaymentTarget{Kind: TargetOrder, ID: id} }
func ForSubscription(id string) PaymentTarget { return PaymentTarget{Kind: TargetSubscription, ID: id} }
func ForWorkshop(id string) PaymentTarget { return PaymentTarget{Kind: TargetWorkshop, ID: id} }

func (t PaymentTarget) Validate() error {
	switch t.Kind {
	case TargetOrder, TargetSubscription, TargetWorkshop:
	default:
		return fmt.Errorf("unknown payment target kind %q", t.Kind)
	}
	if t.ID == "" {
		return fmt.Errorf("payment target %s has no id", t.Kind)
	}
	return nil
}

// Columns spreads the target over the three nullable foreign keys, exactly
// one of which is set.
func (t PaymentTarget) Columns() (orderID, subscriptionID, workshopID *string) {
	id := t.ID
	switch t.Kind {
	case TargetOrder:
		orderID = &id
	case TargetSubscription:
		subscriptionID = &id
	case TargetWorkshop:
		workshopID = &id
	}
	return
}

// TargetFromColumns is the inverse of Columns.
func TargetFromColumns(orderID, subscriptionID, workshopID *string) (PaymentTarget, error) {
	var targets []PaymentTarget
	if orderID != nil {
		targets = append(targets, ForOrder(*orderID))
	}
	if subscriptionID != nil {
		targets = append(targets, ForSubscription(*subscriptionID))
	}
	if workshopID != nil {
		targets = append(targets, ForWorkshop(*workshopID))
	}
	if len(targets) != 1 {
		return PaymentTarget{}, fmt.Errorf("payment must reference exactly one entity, got %d", len(targets))
	}
	return targets[0], nil
}

type PaymentStatus string

const (
	PaymentSimulated         PaymentStatus = "simulated"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

func (s PaymentStatus) IsRefund() bool {
	return s == PaymentRefunded || s == PaymentPartiallyRefunded
}

type Payment struct {
	BaseModel
	Target   PaymentTarget     `json:"target"`
	ClientID string            `json:"client_id"`
	Type     PaymentTargetKind `json:"transaction_type"`
	Amount   decimal.Decimal   `json:"amount"`
	Status   PaymentStatus     `json:"status"`
}
