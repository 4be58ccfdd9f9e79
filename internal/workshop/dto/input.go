package dto

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/shopspring/decimal"
)

type CreateWorkshopInput struct {
	Name            string
	Description     string
	Date            time.Time
	DurationMinutes int
	Price           decimal.Decimal
	TotalSeats      int
}

type EnrollmentInput struct {
	WorkshopID string
	Actor      auth.UserContext
}

type CancelWorkshopInput struct {
	WorkshopID string
	Reason     string
	Actor      auth.UserContext
}

type MarkAttendedInput struct {
	WorkshopID string
	UserID     string
}
