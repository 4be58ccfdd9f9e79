package dto

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
)

type CreateCategoryInput struct {
	Name        string
	Description string
}

type CreateProductInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

type UpdateProductInput struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
}

// AdjustStockInput restocks (positive delta) or writes off (negative delta).
type AdjustStockInput struct {
	ProductID string
	Delta     int
	Reason    string
	UserID    string
}

type CreatePromotionInput struct {
	Name       string
	Discount   decimal.Decimal
	StartsAt   time.Time
	EndsAt     time.Time
	CategoryID string
	ProductIDs []string
}

type AddPhotoInput struct {
	Owner model.PhotoOwner
	URL   string
}
