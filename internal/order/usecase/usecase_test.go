package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/notification/notificationtest"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	"github.com/Emmanuel-365/chezflora-api/internal/order/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	paymentdto "github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	paymentuc "github.com/Emmanuel-365/chezflora-api/internal/payment/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = auth.UserContext{UserID: "client-1", Role: model.RoleClient}
	stranger = auth.UserContext{UserID: "client-2", Role: model.RoleClient}
	admin    = auth.UserContext{UserID: "admin-1", Role: model.RoleAdmin}
)

type fixture struct {
	uc       order.UseCase
	payments payment.UseCase
	store    *memory.Store
	notified *notificationtest.Recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.SaveUser(model.User{ID: owner.UserID, Email: "client@flora.test", Role: model.RoleClient, IsActive: true})
	require.NoError(t, store.Catalog().CreateProduct(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: "p"}, CategoryID: "cat", Name: "Peonies",
		Price: decimal.NewFromInt(30), Stock: 6, IsActive: true,
	}))

	rec := &notificationtest.Recorder{}
	log := logger.NewNop()
	payments := paymentuc.NewPaymentUseCase(store.Payments(), store, log)
	uc := NewOrderUseCase(store.Orders(), store.Catalog(), payments, store,
		notification.NewDispatcher(rec, store.Users(), log), log)
	return &fixture{uc: uc, payments: payments, store: store, notified: rec}
}

// placeOrder stores an order for four reserved units and its stub payment.
func (f *fixture) placeOrder(t *testing.T, status model.OrderStatus) (*model.Order, *model.Payment) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	o := &model.Order{
		BaseModel: model.BaseModel{ID: "o-" + string(status), CreatedAt: now, UpdatedAt: now},
		ClientID:  owner.UserID,
		Status:    status,
		Lines: []model.OrderLine{
			{ID: "l-1", OrderID: "o-" + string(status), ProductID: "p", Quantity: 4, UnitPrice: decimal.NewFromInt(30)},
		},
	}
	o.RecomputeTotal()
	require.NoError(t, f.store.Orders().Create(ctx, o))

	p, err := f.payments.Record(ctx, &paymentdto.RecordPaymentInput{Target: model.ForOrder(o.ID), ClientID: o.ClientID, Amount: o.Total})
	require.NoError(t, err)
	return o, p
}

func (f *fixture) stock(t *testing.T) int {
	p, err := f.store.Catalog().FindProductByID(context.Background(), "p")
	require.NoError(t, err)
	return p.Stock
}

func TestCancelOrderRestoresStockAndDropsSimulatedPayment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, p := f.placeOrder(t, model.OrderInProgress)

	got, err := f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: o.ID, Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	assert.Equal(t, 10, f.stock(t))

	gone, _ := f.store.Payments().FindByID(ctx, p.ID)
	assert.Nil(t, gone)
	assert.Equal(t, []string{"client@flora.test"}, f.notified.Sent(notification.TemplateOrderCancelled))

	again, err := f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: o.ID, Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, again.Status)
	assert.Equal(t, 10, f.stock(t))
	assert.Len(t, f.notified.Sent(notification.TemplateOrderCancelled), 1)
}

func TestCancelOrderRefundsCompletedPayment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, p := f.placeOrder(t, model.OrderPending)
	_, err := f.payments.Settle(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: o.ID, Actor: admin})
	require.NoError(t, err)

	refunded, _ := f.store.Payments().FindByID(ctx, p.ID)
	require.NotNil(t, refunded)
	assert.Equal(t, model.PaymentRefunded, refunded.Status)
}

func TestCancelOrderGuards(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	shipped, _ := f.placeOrder(t, model.OrderShipped)
	open, _ := f.placeOrder(t, model.OrderPending)

	_, err := f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: shipped.ID, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	_, err = f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: open.ID, Actor: stranger})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: "ghost", Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Equal(t, 6, f.stock(t))
}

func TestAdvanceStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, _ := f.placeOrder(t, model.OrderPending)

	for _, next := range []model.OrderStatus{model.OrderInProgress, model.OrderShipped, model.OrderDelivered} {
		got, err := f.uc.AdvanceStatus(ctx, &dto.AdvanceStatusInput{OrderID: o.ID, Status: next, Actor: admin})
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
	}
	assert.Len(t, f.notified.Sent(notification.TemplateOrderStatusChanged), 3)

	_, err := f.uc.AdvanceStatus(ctx, &dto.AdvanceStatusInput{OrderID: o.ID, Status: model.OrderCancelled, Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	_, err = f.uc.AdvanceStatus(ctx, &dto.AdvanceStatusInput{OrderID: o.ID, Status: model.OrderShipped, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = f.uc.AdvanceStatus(ctx, &dto.AdvanceStatusInput{OrderID: o.ID, Status: "lost", Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAdvanceToCancelledRestoresStock(t *testing.T) {
	f := setup(t)
	o, _ := f.placeOrder(t, model.OrderInProgress)

	got, err := f.uc.AdvanceStatus(context.Background(), &dto.AdvanceStatusInput{OrderID: o.ID, Status: model.OrderCancelled, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	assert.Equal(t, 10, f.stock(t))
}

func TestGetOrderChecksOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, _ := f.placeOrder(t, model.OrderPending)

	got, err := f.uc.GetOrder(ctx, o.ID, owner)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "120", got.Total.String())

	_, err = f.uc.GetOrder(ctx, o.ID, stranger)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	list, err := f.uc.ListOrders(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
