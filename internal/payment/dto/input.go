package dto

import (
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	Target   model.PaymentTarget
	ClientID string
	Amount   decimal.Decimal
}
