package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/notification/notificationtest"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pricing"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc       catalog.UseCase
	store    *memory.Store
	notified *notificationtest.Recorder
	category *model.Category
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SaveUser(model.User{ID: "a-1", Email: "admin@flora.test", Role: model.RoleAdmin, IsActive: true})
	rec := &notificationtest.Recorder{}
	log := logger.NewNop()
	uc := NewCatalogUseCase(
		store.Catalog(), store,
		pricing.NewEngine(store.Catalog()),
		notification.NewDispatcher(rec, store.Users(), log),
		5, log, WithClock(func() time.Time { return now }),
	)

	cat, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Bouquets"})
	require.NoError(t, err)
	return &fixture{uc: uc, store: store, notified: rec, category: cat}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	p, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		CategoryID: f.category.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProductValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{CategoryID: f.category.ID, Name: "Rose", Price: decimal.NewFromInt(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.CreateProduct(ctx, &dto.CreateProductInput{CategoryID: f.category.ID, Name: "Rose", Price: decimal.NewFromInt(1), Stock: -2})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.CreateProduct(ctx, &dto.CreateProductInput{CategoryID: "nope", Name: "Rose", Price: decimal.NewFromInt(1)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.uc.CreateProduct(ctx, &dto.CreateProductInput{CategoryID: f.category.ID, Name: "  ", Price: decimal.NewFromInt(1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGetProductAppliesStackedPromotions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Grand bouquet", "1000", 3)

	_, err := f.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		Name: "Spring", Discount: decimal.RequireFromString("0.20"),
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), ProductIDs: []string{p.ID},
	})
	require.NoError(t, err)
	_, err = f.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		Name: "Loyalty", Discount: decimal.RequireFromString("0.10"),
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), CategoryID: f.category.ID,
	})
	require.NoError(t, err)
	_, err = f.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		Name: "Later", Discount: decimal.RequireFromString("0.50"),
		StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour), ProductIDs: []string{p.ID},
	})
	require.NoError(t, err)

	view, err := f.uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "720.00", view.EffectivePrice.StringFixed(2))
	assert.Equal(t, "1000", view.Price.String())
}

func TestDeactivatePromotion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Tulips", "40", 3)
	promo, err := f.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		Name: "Flash", Discount: decimal.RequireFromString("0.25"),
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), ProductIDs: []string{p.ID, p.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, promo.ProductIDs)

	_, err = f.uc.DeactivatePromotion(ctx, promo.ID)
	require.NoError(t, err)

	view, err := f.uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", view.EffectivePrice.StringFixed(2))

	_, err = f.uc.DeactivatePromotion(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreatePromotionValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Lily", "15", 1)

	cases := []dto.CreatePromotionInput{
		{Name: "Too much", Discount: decimal.RequireFromString("1.2"), StartsAt: now, EndsAt: now.Add(time.Hour), ProductIDs: []string{p.ID}},
		{Name: "Negative", Discount: decimal.RequireFromString("-0.1"), StartsAt: now, EndsAt: now.Add(time.Hour), ProductIDs: []string{p.ID}},
		{Name: "Backwards", Discount: decimal.RequireFromString("0.1"), StartsAt: now, EndsAt: now, ProductIDs: []string{p.ID}},
		{Name: "No scope", Discount: decimal.RequireFromString("0.1"), StartsAt: now, EndsAt: now.Add(time.Hour)},
	}
	for _, in := range cases {
		in := in
		_, err := f.uc.CreatePromotion(ctx, &in)
		assert.True(t, apperror.Is(err, apperror.KindValidation), in.Name)
	}

	_, err := f.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		Name: "Ghost", Discount: decimal.RequireFromString("0.1"), StartsAt: now, EndsAt: now.Add(time.Hour), ProductIDs: []string{"ghost"},
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAdjustStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Orchid", "60", 2)

	got, err := f.uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID, Delta: 8, Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)

	_, err = f.uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID, Delta: -11})
	assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))

	got, err = f.uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID, Delta: -10, Reason: "wilted"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = f.uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "ghost", Delta: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateProductKeepsStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Peony", "30", 7)

	got, err := f.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, CategoryID: f.category.ID, Name: "Peony XL", Price: decimal.RequireFromString("35"), IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Peony XL", got.Name)

	stored, _ := f.store.Catalog().FindProductByID(ctx, p.ID)
	assert.Equal(t, 7, stored.Stock)
	assert.Equal(t, "35", stored.Price.String())
}

func TestNotifyLowStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.product(t, "Plenty", "10", 50)
	f.product(t, "Scarce", "10", 4)
	f.product(t, "Gone", "10", 0)

	res, err := f.uc.NotifyLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, []string{"admin@flora.test"}, f.notified.Sent(notification.TemplateLowStock))
}

func TestListProductsPaginates(t *testing.T) {
	f := setup(t)
	for _, n := range []string{"Aster", "Begonia", "Camellia"} {
		f.product(t, n, "5", 1)
	}

	page, count, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, page, 1)
	assert.Equal(t, "Camellia", page[0].Name)

	found, _, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "gon"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Begonia", found[0].Name)
}

func TestAddPhoto(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Fern", "8", 1)

	photo, err := f.uc.AddPhoto(ctx, &dto.AddPhotoInput{Owner: model.PhotoOwner{Kind: model.OwnerProduct, ID: p.ID}, URL: "https://cdn/fern.jpg"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, photo.Owner.ID)

	_, err = f.uc.AddPhoto(ctx, &dto.AddPhotoInput{Owner: model.PhotoOwner{Kind: model.OwnerProduct, ID: "ghost"}, URL: "x"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.uc.AddPhoto(ctx, &dto.AddPhotoInput{Owner: model.PhotoOwner{Kind: "blog", ID: "b"}, URL: "x"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.AddPhoto(ctx, &dto.AddPhotoInput{Owner: model.PhotoOwner{Kind: model.OwnerRealisation, ID: "r-1"}, URL: "https://cdn/wedding.jpg"})
	assert.NoError(t, err)
}
