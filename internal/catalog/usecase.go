package catalog

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)

	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductView, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)

	CreatePromotion(ctx context.Context, input *dto.CreatePromotionInput) (*model.Promotion, error)
	DeactivatePromotion(ctx context.Context, id string) (*model.Promotion, error)

	AddPhoto(ctx context.Context, input *dto.AddPhotoInput) (*model.Photo, error)

	NotifyLowStock(ctx context.Context) (model.BatchResult, error)
}
