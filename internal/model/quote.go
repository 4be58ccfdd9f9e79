package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSubmitted QuoteStatus = "submitted"
	QuoteInReview  QuoteStatus = "in_review"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRefused   QuoteStatus = "refused"
	QuoteExpired   QuoteStatus = "expired"
)

// Decided reports whether the quote reached accepted or refused. Expiry never
// overrides a decision.
func (s QuoteStatus) Decided() bool {
	return s == QuoteAccepted || s == QuoteRefused
}

type Quote struct {
	BaseModel
	ClientID       string           `db:"client_id" json:"client_id"`
	ServiceID      string           `db:"service_id" json:"service_id"`
	Description    string           `db:"description" json:"description"`
	Status         QuoteStatus      `db:"status" json:"status"`
	RequestedPrice *decimal.Decimal `db:"requested_price" json:"requested_price"`
	ProposedPrice  *decimal.Decimal `db:"proposed_price" json:"proposed_price"`
	AdminComment   *string          `db:"admin_comment" json:"admin_comment"`
	SubmittedAt    *time.Time       `db:"submitted_at" json:"submitted_at"`
	ExpiresAt      *time.Time       `db:"expires_at" json:"expires_at"`
}

func (q *Quote) Overdue(at time.Time) bool {
	return q.ExpiresAt != nil && q.ExpiresAt.Before(at)
}
