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
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	paymentdto "github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type subscriptionUseCase struct {
	repo     subscription.Repository
	products catalog.Repository
	orders   order.Repository
	payments payment.UseCase
	tx       storage.TxManager
	notify   *notification.Dispatcher
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*subscriptionUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *subscriptionUseCase) { uc.now = now }
}

func NewSubscriptionUseCase(
	repo subscription.Repository,
	products catalog.Repository,
	orders order.Repository,
	payments payment.UseCase,
	tx storage.TxManager,
	notify *notification.Dispatcher,
	log logger.ZapLogger,
	opts ...Option,
) subscription.UseCase {
	uc := &subscriptionUseCase{
		repo:     repo,
		products: products,
		orders:   orders,
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

// Create records the first cycle's payment upfront, so a new subscription is
// immediately eligible for its first delivery on the start date.
func (uc *subscriptionUseCase) Create(ctx context.Context, input *dto.CreateSubscriptionInput) (*model.Subscription, error) {
	if input.ClientID == "" {
		return nil, apperror.Validation("client is required")
	}
	if !input.Cadence.Valid() {
		return nil, apperror.Validation("unknown cadence %q", input.Cadence)
	}
	if input.StartDate.IsZero() {
		return nil, apperror.Validation("start date is required")
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, apperror.Validation("end date must be after start date")
	}

	now := uc.now()
	sub := &model.Subscription{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ClientID:  input.ClientID,
		Cadence:   input.Cadence,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  true,
	}

	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		items, priced, err := uc.resolveItems(ctx, sub.ID, input.Items)
		if err != nil {
			return err
		}
		sub.Items = items
		sub.Price = subscription.ComputePrice(sub.Cadence, priced)

		if sub.Cadence == model.CadenceYearly {
			sub.PaymentStatus = model.SubscriptionPaidInFull
		} else {
			sub.PaymentStatus = model.SubscriptionPaidMonthly
		}
		start := sub.StartDate
		sub.NextDelivery = &start
		sub.NextBilling = subscription.ComputeNextBilling(sub.Cadence, sub.StartDate, nil)

		if err := uc.repo.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		_, err = uc.payments.Record(ctx, &paymentdto.RecordPaymentInput{
			Target:   model.ForSubscription(sub.ID),
			ClientID: sub.ClientID,
			Amount:   sub.Price,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("cadence", string(sub.Cadence)),
		zap.String("price", sub.Price.StringFixed(2)),
	)
	uc.notify.NotifyUser(ctx, sub.ClientID, notification.TemplateSubscriptionCreated, map[string]interface{}{
		"subscription_id": sub.ID,
		"cadence":         string(sub.Cadence),
		"price":           sub.Price.StringFixed(2),
		"start_date":      sub.StartDate,
	})
	return sub, nil
}

// resolveItems validates the requested items and prices them at the current
// catalog price.
func (uc *subscriptionUseCase) resolveItems(ctx context.Context, subscriptionID string, in []dto.ItemInput) ([]model.SubscriptionItem, []subscription.PricedItem, error) {
	if len(in) == 0 {
		return nil, nil, apperror.Validation("a subscription needs at least one product")
	}

	seen := make(map[string]bool, len(in))
	items := make([]model.SubscriptionItem, 0, len(in))
	priced := make([]subscription.PricedItem, 0, len(in))
	for _, it := range in {
		if it.Quantity < 1 {
			return nil, nil, apperror.Validation("quantity for product %s must be at least 1", it.ProductID)
		}
		if seen[it.ProductID] {
			return nil, nil, apperror.Validation("product %s is listed twice", it.ProductID)
		}
		seen[it.ProductID] = true

		p, err := uc.products.FindProductByID(ctx, it.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil || !p.IsActive {
			return nil, nil, apperror.NotFound("product", it.ProductID)
		}
		items = append(items, model.SubscriptionItem{SubscriptionID: subscriptionID, ProductID: p.ID, Quantity: it.Quantity})
		priced = append(priced, subscription.PricedItem{UnitPrice: p.Price, Quantity: it.Quantity})
	}
	return items, priced, nil
}

func (uc *subscriptionUseCase) find(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("subscription", id)
	}
	return sub, nil
}

func (uc *subscriptionUseCase) Get(ctx context.Context, id string, actor auth.UserContext) (*model.Subscription, error) {
	sub, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(sub.ClientID) {
		return nil, apperror.Unauthorized("subscription %s belongs to another client", id)
	}
	return sub, nil
}

func (uc *subscriptionUseCase) UpdateItems(ctx context.Context, input *dto.UpdateItemsInput) (*model.Subscription, error) {
	var sub *model.Subscription
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = uc.find(ctx, input.SubscriptionID)
		if err != nil {
			return err
		}
		if !input.Actor.CanActFor(sub.ClientID) {
			return apperror.Unauthorized("subscription %s belongs to another client", sub.ID)
		}
		if !sub.IsActive {
			return apperror.New(apperror.KindInvalidTransition, "subscription %s is no longer active", sub.ID)
		}

		items, priced, err := uc.resolveItems(ctx, sub.ID, input.Items)
		if err != nil {
			return err
		}
		if err := uc.repo.ReplaceItems(ctx, sub.ID, items); err != nil {
			return fmt.Errorf("failed to replace subscription items: %w", err)
		}
		sub.Items = items
		sub.Price = subscription.ComputePrice(sub.Cadence, priced)
		sub.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GenerateOrder turns one delivery slot into a pending order priced at the
// current catalog price. Any missing stock rolls the whole delivery back.
func (uc *subscriptionUseCase) GenerateOrder(ctx context.Context, id string) (*model.Order, error) {
	var o *model.Order
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		sub, err := uc.find(ctx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if !sub.IsActive || sub.Ended(now) || sub.PaymentStatus == model.SubscriptionUnpaid {
			return nil
		}

		subID := sub.ID
		o = &model.Order{
			BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ClientID:       sub.ClientID,
			SubscriptionID: &subID,
			Status:         model.OrderPending,
		}
		for _, it := range sub.Items {
			p, err := uc.products.FindProductByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return apperror.NotFound("product", it.ProductID)
			}
			ok, err := uc.products.DecrementStock(ctx, p.ID, it.Quantity)
			if err != nil {
				return fmt.Errorf("failed to take stock for %s: %w", p.ID, err)
			}
			if !ok {
				return apperror.InsufficientStock(p.ID)
			}
			o.Lines = append(o.Lines, model.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				CreatedAt: now,
			})
		}
		o.RecomputeTotal()
		if err := uc.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("failed to create subscription order: %w", err)
		}

		next := subscription.ComputeNextDelivery(sub.Cadence, sub.StartDate, sub.NextDelivery)
		sub.NextDelivery = &next
		sub.UpdatedAt = now
		return uc.repo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	uc.notify.NotifyUser(ctx, o.ClientID, notification.TemplateSubscriptionOrder, map[string]interface{}{
		"subscription_id": id,
		"order_id":        o.ID,
		"total":           o.Total.StringFixed(2),
	})
	return o, nil
}

// Bill charges one monthly cycle at current catalog prices.
func (uc *subscriptionUseCase) Bill(ctx context.Context, id string) (*model.Payment, error) {
	var (
		pay *model.Payment
		sub *model.Subscription
	)
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = uc.find(ctx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if !sub.IsActive || sub.PaymentStatus != model.SubscriptionPaidMonthly {
			return apperror.InvalidTransition("subscription", sub.PaymentStatus, "billed")
		}
		if sub.NextBilling == nil || sub.NextBilling.After(now) {
			return apperror.New(apperror.KindInvalidTransition, "subscription %s is not due for billing", sub.ID)
		}

		priced := make([]subscription.PricedItem, 0, len(sub.Items))
		for _, it := range sub.Items {
			p, err := uc.products.FindProductByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return apperror.NotFound("product", it.ProductID)
			}
			priced = append(priced, subscription.PricedItem{UnitPrice: p.Price, Quantity: it.Quantity})
		}
		sub.Price = subscription.ComputePrice(sub.Cadence, priced)

		pay, err = uc.payments.Record(ctx, &paymentdto.RecordPaymentInput{
			Target:   model.ForSubscription(sub.ID),
			ClientID: sub.ClientID,
			Amount:   sub.Price,
		})
		if err != nil {
			return err
		}

		sub.NextBilling = subscription.ComputeNextBilling(sub.Cadence, sub.StartDate, sub.NextBilling)
		sub.UpdatedAt = now
		return uc.repo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	uc.notify.NotifyUser(ctx, sub.ClientID, notification.TemplateSubscriptionBilled, map[string]interface{}{
		"subscription_id": sub.ID,
		"payment_id":      pay.ID,
		"amount":          pay.Amount.StringFixed(2),
	})
	return pay, nil
}

// Cancel keeps past deliveries and only reverses the latest payment. There is
// no proration.
func (uc *subscriptionUseCase) Cancel(ctx context.Context, input *dto.CancelSubscriptionInput) (*model.Subscription, error) {
	var sub *model.Subscription
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = uc.find(ctx, input.SubscriptionID)
		if err != nil {
			return err
		}
		if !input.Actor.CanActFor(sub.ClientID) {
			return apperror.Unauthorized("subscription %s belongs to another client", sub.ID)
		}
		if !sub.IsActive {
			return apperror.New(apperror.KindInvalidTransition, "subscription %s is already cancelled", sub.ID)
		}

		if _, err := uc.payments.ReverseLatest(ctx, model.ForSubscription(sub.ID), "", model.PaymentPartiallyRefunded); err != nil {
			return err
		}
		sub.IsActive = false
		sub.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("subscription cancelled", zap.String("subscription_id", sub.ID), zap.String("by", input.Actor.UserID))
	uc.notify.NotifyUser(ctx, sub.ClientID, notification.TemplateSubscriptionCancelled, map[string]interface{}{
		"subscription_id": sub.ID,
	})
	return sub, nil
}

func (uc *subscriptionUseCase) RunDeliveries(ctx context.Context) (model.BatchResult, error) {
	ids, err := uc.repo.ListDueForDelivery(ctx, uc.now())
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to list due deliveries: %w", err)
	}
	return uc.batch(ctx, "delivery", ids, func(ctx context.Context, id string) (bool, error) {
		o, err := uc.GenerateOrder(ctx, id)
		return o != nil, err
	}), nil
}

func (uc *subscriptionUseCase) RunBilling(ctx context.Context) (model.BatchResult, error) {
	ids, err := uc.repo.ListDueForBilling(ctx, uc.now())
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to list due billings: %w", err)
	}
	return uc.batch(ctx, "billing", ids, func(ctx context.Context, id string) (bool, error) {
		_, err := uc.Bill(ctx, id)
		return err == nil, err
	}), nil
}

// batch runs fn once per subscription. A failure is logged and counted and
// never stops the batch.
func (uc *subscriptionUseCase) batch(ctx context.Context, job string, ids []string, fn func(ctx context.Context, id string) (bool, error)) model.BatchResult {
	res := model.BatchResult{}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		res.Processed++
		done, err := fn(ctx, id)
		switch {
		case err != nil:
			res.Failed++
			uc.logger.Error("subscription job failed for entity",
				zap.String("job", job),
				zap.String("subscription_id", id),
				zap.Error(err),
			)
		case done:
			res.Succeeded++
		default:
			res.Skipped++
		}
	}
	uc.logger.Info("subscription batch finished",
		zap.String("job", job),
		zap.Int("processed", res.Processed),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res
}
