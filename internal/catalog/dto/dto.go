package dto

import (
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

type ProductFilters struct {
	CategoryID  string `json:"category_id"`
	ActiveOnly  bool   `json:"active_only"`
	SearchQuery string `json:"search_query"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type ProductView struct {
	model.Product
	EffectivePrice decimal.Decimal `json:"effective_price"`
}
