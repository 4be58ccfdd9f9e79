package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/cart"
	"github.com/Emmanuel-365/chezflora-api/internal/cart/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	paymentdto "github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pricing"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartUseCase struct {
	products catalog.Repository
	carts    cart.Repository
	orders   order.Repository
	payments payment.UseCase
	pricing  *pricing.Engine
	tx       storage.TxManager
	notify   *notification.Dispatcher
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*cartUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *cartUseCase) { uc.now = now }
}

func NewCartUseCase(
	products catalog.Repository,
	carts cart.Repository,
	orders order.Repository,
	payments payment.UseCase,
	engine *pricing.Engine,
	tx storage.TxManager,
	notify *notification.Dispatcher,
	log logger.ZapLogger,
	opts ...Option,
) cart.UseCase {
	uc := &cartUseCase{
		products: products,
		carts:    carts,
		orders:   orders,
		payments: payments,
		pricing:  engine,
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

func (uc *cartUseCase) GetCart(ctx context.Context, clientID string) (*dto.CartView, error) {
	c, err := uc.carts.GetOrCreate(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	lines, err := uc.carts.ListLines(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	at := uc.now()
	view := &dto.CartView{ID: c.ID, ClientID: c.ClientID, Lines: make([]dto.CartLineView, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		p, err := uc.products.FindProductByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			uc.logger.Warn("cart line references a missing product", zap.String("cart_id", c.ID), zap.String("product_id", l.ProductID))
			continue
		}
		price, err := uc.pricing.Price(ctx, p, at)
		if err != nil {
			return nil, err
		}
		sub := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		view.Lines = append(view.Lines, dto.CartLineView{CartLine: l, ProductName: p.Name, UnitPrice: price, Subtotal: sub})
		view.Total = view.Total.Add(sub)
	}
	return view, nil
}

// AddLine reserves quantity units of the product and merges them into the
// client's single line for that product.
func (uc *cartUseCase) AddLine(ctx context.Context, input *dto.AddLineInput) (*model.CartLine, error) {
	if input.Quantity < 1 {
		return nil, apperror.Validation("quantity must be at least 1")
	}

	var line *model.CartLine
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := uc.products.FindProductByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsActive {
			return apperror.NotFound("product", input.ProductID)
		}
		if err := uc.reserve(ctx, p.ID, input.Quantity); err != nil {
			return err
		}

		c, err := uc.carts.GetOrCreate(ctx, input.ClientID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		line, err = uc.carts.FindLine(ctx, c.ID, p.ID)
		if err != nil {
			return err
		}

		now := uc.now()
		if line == nil {
			line = &model.CartLine{
				ID:        uuid.New().String(),
				CartID:    c.ID,
				ProductID: p.ID,
				AddedAt:   now,
			}
		}
		line.Quantity += input.Quantity
		line.UpdatedAt = now
		return uc.carts.SaveLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("cart line added",
		zap.String("client_id", input.ClientID),
		zap.String("product_id", input.ProductID),
		zap.Int("quantity", line.Quantity),
	)
	return line, nil
}

func (uc *cartUseCase) SetQuantity(ctx context.Context, input *dto.SetQuantityInput) (*model.CartLine, error) {
	var line *model.CartLine
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		line, err = uc.findLine(ctx, input.ClientID, input.ProductID)
		if err != nil {
			return err
		}

		if input.Quantity <= 0 {
			if err := uc.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
			if err := uc.carts.DeleteLine(ctx, line.CartID, line.ProductID); err != nil {
				return fmt.Errorf("failed to delete cart line: %w", err)
			}
			line = nil
			return nil
		}

		delta := input.Quantity - line.Quantity
		switch {
		case delta > 0:
			if err := uc.reserve(ctx, line.ProductID, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := uc.products.IncrementStock(ctx, line.ProductID, -delta); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		line.Quantity = input.Quantity
		line.UpdatedAt = uc.now()
		return uc.carts.SaveLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (uc *cartUseCase) RemoveLine(ctx context.Context, input *dto.RemoveLineInput) error {
	return uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		line, err := uc.findLine(ctx, input.ClientID, input.ProductID)
		if err != nil {
			return err
		}
		if err := uc.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
		return uc.carts.DeleteLine(ctx, line.CartID, line.ProductID)
	})
}

// Checkout freezes the reserved lines into an order. Stock was already taken
// when the lines were added, so it is not touched here.
func (uc *cartUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error) {
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, apperror.Validation("delivery address is required")
	}

	var o *model.Order
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.carts.GetOrCreate(ctx, input.ClientID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		lines, err := uc.carts.ListLines(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to load cart lines: %w", err)
		}
		if len(lines) == 0 {
			return apperror.EmptyCart()
		}

		now := uc.now()
		o = &model.Order{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ClientID:  input.ClientID,
			Address:   &address,
			Status:    model.OrderInProgress,
		}
		for _, l := range lines {
			p, err := uc.products.FindProductByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return apperror.NotFound("product", l.ProductID)
			}
			price, err := uc.pricing.Price(ctx, p, now)
			if err != nil {
				return err
			}
			o.Lines = append(o.Lines, model.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: p.ID,
				Quantity:  l.Quantity,
				UnitPrice: price,
				CreatedAt: now,
			})
		}
		o.RecomputeTotal()

		if err := uc.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if _, err := uc.payments.Record(ctx, &paymentdto.RecordPaymentInput{
			Target:   model.ForOrder(o.ID),
			ClientID: o.ClientID,
			Amount:   o.Total,
		}); err != nil {
			return err
		}
		return uc.carts.ClearLines(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("client_id", o.ClientID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	uc.notify.NotifyUser(ctx, o.ClientID, notification.TemplateOrderConfirmed, map[string]interface{}{
		"order_id": o.ID,
		"total":    o.Total.StringFixed(2),
		"address":  address,
	})
	return o, nil
}

func (uc *cartUseCase) reserve(ctx context.Context, productID string, qty int) error {
	ok, err := uc.products.DecrementStock(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if !ok {
		return apperror.InsufficientStock(productID)
	}
	return nil
}

func (uc *cartUseCase) findLine(ctx context.Context, clientID, productID string) (*model.CartLine, error) {
	c, err := uc.carts.GetOrCreate(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	line, err := uc.carts.FindLine(ctx, c.ID, productID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, apperror.NotFound("cart line", productID)
	}
	return line, nil
}
