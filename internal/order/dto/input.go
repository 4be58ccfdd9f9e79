package dto

import (
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type CancelOrderInput struct {
	OrderID string
	Actor   auth.UserContext
}

type AdvanceStatusInput struct {
	OrderID string
	Status  model.OrderStatus
	Actor   auth.UserContext
}
