package catalog

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	FindCategoryByID(ctx context.Context, id string) (*model.Category, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id string) (*model.Product, error)
	FindProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)

	// DecrementStock removes qty units only if at least qty are in stock. It
	// reports false, without error, when stock is insufficient.
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID string, qty int) error

	CreatePromotion(ctx context.Context, p *model.Promotion) error
	UpdatePromotion(ctx context.Context, p *model.Promotion) error
	FindPromotionByID(ctx context.Context, id string) (*model.Promotion, error)
	// ActivePromotions returns active promotions valid at the given time that
	// list the product or target its category.
	ActivePromotions(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error)

	CreatePhoto(ctx context.Context, p *model.Photo) error
}
