package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	"github.com/Emmanuel-365/chezflora-api/internal/order/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo     order.Repository
	products catalog.Repository
	payments payment.UseCase
	tx       storage.TxManager
	notify   *notification.Dispatcher
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*orderUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *orderUseCase) { uc.now = now }
}

func NewOrderUseCase(repo order.Repository, products catalog.Repository, payments payment.UseCase, tx storage.TxManager, notify *notification.Dispatcher, log logger.ZapLogger, opts ...Option) order.UseCase {
	uc := &orderUseCase{
		repo:     repo,
		products: products,
		payments: payments,
		tx:       tx,
		notify:   notify,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string, actor auth.UserContext) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	if !actor.CanActFor(o.ClientID) {
		return nil, apperror.Unauthorized("order %s belongs to another client", id)
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, actor auth.UserContext) ([]model.Order, error) {
	orders, err := uc.repo.ListByClient(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// CancelOrder puts every line back in stock and reverses the order payment.
func (uc *orderUseCase) CancelOrder(ctx context.Context, input *dto.CancelOrderInput) (*model.Order, error) {
	var (
		o       *model.Order
		changed bool
	)
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", input.OrderID)
		}
		if !input.Actor.CanActFor(o.ClientID) {
			return apperror.Unauthorized("order %s belongs to another client", o.ID)
		}
		if o.Status == model.OrderCancelled {
			return nil
		}
		if !o.Status.Cancellable() {
			return apperror.InvalidTransition("order", o.Status, model.OrderCancelled)
		}

		for _, l := range o.Lines {
			if err := uc.products.IncrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock for %s: %w", l.ProductID, err)
			}
		}
		if _, err := uc.payments.ReverseLatest(ctx, model.ForOrder(o.ID), "", model.PaymentRefunded); err != nil {
			return err
		}

		o.Status = model.OrderCancelled
		o.UpdatedAt = uc.now()
		changed = true
		return uc.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	uc.logger.Info("order cancelled", zap.String("order_id", o.ID), zap.String("by", input.Actor.UserID))
	uc.notify.NotifyUser(ctx, o.ClientID, notification.TemplateOrderCancelled, map[string]interface{}{
		"order_id": o.ID,
		"total":    o.Total.StringFixed(2),
	})
	return o, nil
}

// AdvanceStatus moves an order along pending, in_progress, shipped, delivered.
// A cancelled target goes through CancelOrder.
func (uc *orderUseCase) AdvanceStatus(ctx context.Context, input *dto.AdvanceStatusInput) (*model.Order, error) {
	if !input.Actor.IsAdmin() {
		return nil, apperror.Unauthorized("only admins can change order status")
	}
	if !input.Status.Valid() {
		return nil, apperror.Validation("unknown order status %q", input.Status)
	}
	if input.Status == model.OrderCancelled {
		return uc.CancelOrder(ctx, &dto.CancelOrderInput{OrderID: input.OrderID, Actor: input.Actor})
	}

	var o *model.Order
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", input.OrderID)
		}
		if !o.Status.CanTransitionTo(input.Status) {
			return apperror.InvalidTransition("order", o.Status, input.Status)
		}
		o.Status = input.Status
		o.UpdatedAt = uc.now()
		return uc.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	uc.notify.NotifyUser(ctx, o.ClientID, notification.TemplateOrderStatusChanged, map[string]interface{}{
		"order_id": o.ID,
		"status":   string(o.Status),
	})
	return o, nil
}
