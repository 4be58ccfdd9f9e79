package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/cache"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/search"
	"github.com/Emmanuel-365/chezflora-api/internal/pricing"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	productIndex   = "products"
	listCacheTTL   = time.Minute
	listCacheScope = "catalog:products:list:"
)

type catalogUseCase struct {
	repo              catalog.Repository
	tx                storage.TxManager
	pricing           *pricing.Engine
	notify            *notification.Dispatcher
	cache             *cache.RedisClient
	es                *search.Client
	lowStockThreshold int
	logger            logger.ZapLogger
	now               func() time.Time
}

type Option func(*catalogUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *catalogUseCase) { uc.now = now }
}

// WithCache enables the product list cache and the restock lock.
func WithCache(c *cache.RedisClient) Option {
	return func(uc *catalogUseCase) { uc.cache = c }
}

// WithSearch indexes products in Elasticsearch and serves text search from it.
func WithSearch(es *search.Client) Option {
	return func(uc *catalogUseCase) { uc.es = es }
}

func NewCatalogUseCase(repo catalog.Repository, tx storage.TxManager, engine *pricing.Engine, notify *notification.Dispatcher, lowStockThreshold int, log logger.ZapLogger, opts ...Option) catalog.UseCase {
	uc := &catalogUseCase{
		repo:              repo,
		tx:                tx,
		pricing:           engine,
		notify:            notify,
		lowStockThreshold: lowStockThreshold,
		logger:            log,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *catalogUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("category name is required")
	}

	now := uc.now()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		IsActive:  true,
	}
	if input.Description != "" {
		c.Description = &input.Description
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateProduct(input.Name, input.Price); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, apperror.Validation("stock must not be negative")
	}
	if err := uc.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &model.Product{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		Stock:      input.Stock,
		IsActive:   true,
	}
	if input.Description != "" {
		p.Description = &input.Description
	}

	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validateProduct(input.Name, input.Price); err != nil {
		return nil, err
	}
	if err := uc.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindProductByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", input.ID)
	}

	p.CategoryID = input.CategoryID
	p.Name = strings.TrimSpace(input.Name)
	p.Price = input.Price
	p.IsActive = input.IsActive
	p.Description = nil
	if input.Description != "" {
		p.Description = &input.Description
	}
	p.UpdatedAt = uc.now()

	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperror.Validation("product name is required")
	}
	if price.IsNegative() {
		return apperror.Validation("price must not be negative")
	}
	return nil
}

func (uc *catalogUseCase) requireCategory(ctx context.Context, id string) error {
	if id == "" {
		return apperror.Validation("category is required")
	}
	c, err := uc.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.NotFound("category", id)
	}
	return nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductView, error) {
	p, err := uc.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}

	price, err := uc.pricing.Price(ctx, p, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.ProductView{Product: *p, EffectivePrice: price}, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if data, err := json.Marshal(filters); err == nil {
			cacheKey = fmt.Sprintf("%s%x", listCacheScope, md5.Sum(data))
			if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
				var hit cachedList
				if err := json.Unmarshal(raw, &hit); err == nil {
					return hit.Products, hit.Count, nil
				}
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindProducts(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "description"},
			},
		},
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}
	if filters.ActiveOnly {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": true}})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	mapping := `{
		"mappings": {
			"properties": {
				"category_id": { "type": "keyword" },
				"name": { "type": "text" },
				"description": { "type": "text" },
				"price": { "type": "keyword" },
				"is_active": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	if err := uc.es.CreateIndex(ctx, productIndex, mapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, listCacheScope+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *catalogUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	if input.Delta == 0 {
		return nil, apperror.Validation("stock adjustment must not be zero")
	}

	if uc.cache != nil {
		lockKey := "lock:catalog:stock:" + input.ProductID
		lockValue := uuid.New().String()
		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, apperror.New(apperror.KindInvalidTransition, "stock of product %s is being adjusted, try again", input.ProductID)
		}
		defer func() {
			if err := uc.cache.ReleaseLock(ctx, lockKey, lockValue); err != nil {
				uc.logger.Warn("failed to release stock lock", zap.Error(err))
			}
		}()
	}

	var p *model.Product
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", input.ProductID)
		}

		if input.Delta > 0 {
			if err := uc.repo.IncrementStock(ctx, p.ID, input.Delta); err != nil {
				return fmt.Errorf("failed to restock: %w", err)
			}
		} else {
			ok, err := uc.repo.DecrementStock(ctx, p.ID, -input.Delta)
			if err != nil {
				return fmt.Errorf("failed to write off stock: %w", err)
			}
			if !ok {
				return apperror.InsufficientStock(p.ID)
			}
		}

		p, err = uc.repo.FindProductByID(ctx, input.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.Int("delta", input.Delta),
		zap.Int("stock", p.Stock),
		zap.String("reason", input.Reason),
		zap.String("user_id", input.UserID),
	)
	go uc.invalidateListCache(context.Background())
	return p, nil
}

func (uc *catalogUseCase) CreatePromotion(ctx context.Context, input *dto.CreatePromotionInput) (*model.Promotion, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("promotion name is required")
	}
	if input.Discount.IsNegative() || input.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return nil, apperror.Validation("discount must be between 0 and 1")
	}
	if !input.StartsAt.Before(input.EndsAt) {
		return nil, apperror.Validation("promotion must start before it ends")
	}
	if input.CategoryID == "" && len(input.ProductIDs) == 0 {
		return nil, apperror.Validation("promotion needs a category or at least one product")
	}

	now := uc.now()
	promo := &model.Promotion{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      strings.TrimSpace(input.Name),
		Discount:  input.Discount,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		IsActive:  true,
	}

	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if input.CategoryID != "" {
			if err := uc.requireCategory(ctx, input.CategoryID); err != nil {
				return err
			}
			promo.CategoryID = &input.CategoryID
		}
		seen := map[string]bool{}
		for _, id := range input.ProductIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			p, err := uc.repo.FindProductByID(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return apperror.NotFound("product", id)
			}
			promo.ProductIDs = append(promo.ProductIDs, id)
		}
		return uc.repo.CreatePromotion(ctx, promo)
	})
	if err != nil {
		return nil, err
	}
	return promo, nil
}

func (uc *catalogUseCase) DeactivatePromotion(ctx context.Context, id string) (*model.Promotion, error) {
	promo, err := uc.repo.FindPromotionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, apperror.NotFound("promotion", id)
	}
	if !promo.IsActive {
		return promo, nil
	}
	promo.IsActive = false
	promo.UpdatedAt = uc.now()
	if err := uc.repo.UpdatePromotion(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to deactivate promotion: %w", err)
	}
	return promo, nil
}

func (uc *catalogUseCase) AddPhoto(ctx context.Context, input *dto.AddPhotoInput) (*model.Photo, error) {
	if err := input.Owner.Validate(); err != nil {
		return nil, apperror.Validation("%v", err)
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, apperror.Validation("photo url is required")
	}
	if input.Owner.Kind == model.OwnerProduct {
		p, err := uc.repo.FindProductByID(ctx, input.Owner.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperror.NotFound("product", input.Owner.ID)
		}
	}

	photo := &model.Photo{
		ID:        uuid.New().String(),
		Owner:     input.Owner,
		URL:       strings.TrimSpace(input.URL),
		CreatedAt: uc.now(),
	}
	if err := uc.repo.CreatePhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	return photo, nil
}

func (uc *catalogUseCase) NotifyLowStock(ctx context.Context) (model.BatchResult, error) {
	products, err := uc.repo.ListLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to list low stock products: %w", err)
	}
	res := model.BatchResult{Processed: len(products)}
	if len(products) == 0 {
		return res, nil
	}

	items := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		items = append(items, map[string]interface{}{"product_id": p.ID, "name": p.Name, "stock": p.Stock})
	}
	uc.notify.NotifyAdmins(ctx, notification.TemplateLowStock, map[string]interface{}{
		"threshold": uc.lowStockThreshold,
		"products":  items,
	})
	res.Succeeded = len(products)
	return res, nil
}
