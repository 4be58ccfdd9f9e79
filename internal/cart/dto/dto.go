package dto

import (
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

type CartLineView struct {
	model.CartLine
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	ID       string          `json:"id"`
	ClientID string          `json:"client_id"`
	Lines    []CartLineView  `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}
