package dto

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type ItemInput struct {
	ProductID string
	Quantity  int
}

type CreateSubscriptionInput struct {
	ClientID  string
	Cadence   model.Cadence
	StartDate time.Time
	EndDate   *time.Time
	Items     []ItemInput
}

type UpdateItemsInput struct {
	SubscriptionID string
	Items          []ItemInput
	Actor          auth.UserContext
}

type CancelSubscriptionInput struct {
	SubscriptionID string
	Actor          auth.UserContext
}
