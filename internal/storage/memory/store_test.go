package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, id string, stock int) {
	t.Helper()
	require.NoError(t, s.Catalog().CreateProduct(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: id},
		Name:      id,
		Price:     decimal.NewFromInt(10),
		Stock:     stock,
		IsActive:  true,
	}))
}

func TestTransactionRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p-1", 5)

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.Catalog().DecrementStock(ctx, "p-1", 3)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, s.Orders().Create(ctx, &model.Order{BaseModel: model.BaseModel{ID: "o-1"}, Lines: []model.OrderLine{{ProductID: "p-1", Quantity: 3}}}))
		require.NoError(t, s.Payments().Create(ctx, &model.Payment{BaseModel: model.BaseModel{ID: "pay-1"}, Target: model.ForOrder("o-1")}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Catalog().FindProductByID(ctx, "p-1")
	assert.Equal(t, 5, p.Stock)
	o, _ := s.Orders().FindByID(ctx, "o-1")
	assert.Nil(t, o)
	pay, _ := s.Payments().FindByID(ctx, "pay-1")
	assert.Nil(t, pay)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p-1", 5)

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.WithTransaction(ctx, func(ctx context.Context) error {
			return s.Catalog().IncrementStock(ctx, "p-1", 1)
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)

	p, _ := s.Catalog().FindProductByID(ctx, "p-1")
	assert.Equal(t, 5, p.Stock)
}

func TestDecrementStockNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p-1", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Catalog().DecrementStock(ctx, "p-1", 1)
			if err == nil && ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, _ := s.Catalog().FindProductByID(ctx, "p-1")
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, 10, taken)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Orders().Create(ctx, &model.Order{
		BaseModel: model.BaseModel{ID: "o-1"},
		Lines:     []model.OrderLine{{ProductID: "p-1", Quantity: 1}},
	}))

	o, _ := s.Orders().FindByID(ctx, "o-1")
	o.Lines[0].Quantity = 99
	o.Status = model.OrderDelivered

	again, _ := s.Orders().FindByID(ctx, "o-1")
	assert.Equal(t, 1, again.Lines[0].Quantity)
	assert.Empty(t, again.Status)
}

func TestLatestPaymentUsesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	target := model.ForWorkshop("w-1")
	for _, id := range []string{"a", "b", "c"} {
		client := "c-1"
		if id == "c" {
			client = "c-2"
		}
		require.NoError(t, s.Payments().Create(ctx, &model.Payment{BaseModel: model.BaseModel{ID: id}, Target: target, ClientID: client}))
	}

	latest, _ := s.Payments().FindLatest(ctx, target, "")
	assert.Equal(t, "c", latest.ID)
	latest, _ = s.Payments().FindLatest(ctx, target, "c-1")
	assert.Equal(t, "b", latest.ID)

	require.NoError(t, s.Payments().Delete(ctx, "b"))
	latest, _ = s.Payments().FindLatest(ctx, target, "c-1")
	assert.Equal(t, "a", latest.ID)

	assert.Error(t, s.Payments().Create(ctx, &model.Payment{BaseModel: model.BaseModel{ID: "d"}}))
}
