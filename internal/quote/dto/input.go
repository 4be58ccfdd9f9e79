package dto

import (
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

type CreateQuoteInput struct {
	ClientID       string
	ServiceID      string
	Description    string
	RequestedPrice *decimal.Decimal
	Submit         bool
}

type QuoteActionInput struct {
	QuoteID string
	Actor   auth.UserContext
}

// ProposeResponseInput leaves the stored price or comment unchanged when the
// corresponding field is nil.
type ProposeResponseInput struct {
	QuoteID string
	Status  model.QuoteStatus
	Price   *decimal.Decimal
	Comment *string
	Actor   auth.UserContext
}
