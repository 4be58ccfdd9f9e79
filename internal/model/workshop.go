package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Workshop struct {
	BaseModel
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description"`
	Date            time.Time       `db:"date" json:"date"`
	DurationMinutes int             `db:"duration_minutes" json:"duration_minutes"`
	Price           decimal.Decimal `db:"price" json:"price"`
	TotalSeats      int             `db:"total_seats" json:"total_seats"`
	AvailableSeats  int             `db:"available_seats" json:"available_seats"`
	IsActive        bool            `db:"is_active" json:"is_active"`
}

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantAttended   ParticipantStatus = "attended"
	ParticipantCancelled  ParticipantStatus = "cancelled"
)

type Participant struct {
	ID           string            `db:"id" json:"id"`
	WorkshopID   string            `db:"workshop_id" json:"workshop_id"`
	UserID       string            `db:"user_id" json:"user_id"`
	Status       ParticipantStatus `db:"status" json:"status"`
	RegisteredAt time.Time         `db:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

func (p *Participant) Active() bool {
	return p.Status != ParticipantCancelled
}
