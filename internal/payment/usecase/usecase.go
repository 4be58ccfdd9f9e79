package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentUseCase struct {
	repo   payment.Repository
	tx     storage.TxManager
	logger logger.ZapLogger
}

func NewPaymentUseCase(repo payment.Repository, tx storage.TxManager, log logger.ZapLogger) payment.UseCase {
	return &paymentUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *paymentUseCase) Record(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, error) {
	if err := input.Target.Validate(); err != nil {
		return nil, apperror.Validation("%v", err)
	}
	if input.Amount.IsNegative() {
		return nil, apperror.Validation("payment amount must not be negative")
	}

	now := time.Now()
	p := &model.Payment{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Target:    input.Target,
		ClientID:  input.ClientID,
		Type:      input.Target.Kind,
		Amount:    input.Amount.Round(2),
		Status:    model.PaymentSimulated,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return p, nil
}

func (uc *paymentUseCase) Reverse(ctx context.Context, p *model.Payment, refundStatus model.PaymentStatus) error {
	if p == nil {
		return nil
	}
	if !refundStatus.IsRefund() {
		return fmt.Errorf("%s is not a refund status", refundStatus)
	}

	switch p.Status {
	case model.PaymentSimulated:
		if err := uc.repo.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to delete payment %s: %w", p.ID, err)
		}
	case model.PaymentCompleted:
		p.Status = refundStatus
		p.UpdatedAt = time.Now()
		if err := uc.repo.UpdateStatus(ctx, p); err != nil {
			return fmt.Errorf("failed to refund payment %s: %w", p.ID, err)
		}
	default:
		uc.logger.Debug("payment left as is on reversal", zap.String("payment_id", p.ID), zap.String("status", string(p.Status)))
	}
	return nil
}

func (uc *paymentUseCase) ReverseLatest(ctx context.Context, target model.PaymentTarget, clientID string, refundStatus model.PaymentStatus) (*model.Payment, error) {
	p, err := uc.repo.FindLatest(ctx, target, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest payment: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	if err := uc.Reverse(ctx, p, refundStatus); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *paymentUseCase) Settle(ctx context.Context, id string) (*model.Payment, error) {
	return uc.conclude(ctx, id, model.PaymentCompleted)
}

func (uc *paymentUseCase) Fail(ctx context.Context, id string) (*model.Payment, error) {
	return uc.conclude(ctx, id, model.PaymentFailed)
}

// conclude moves a simulated payment to its gateway outcome. Replaying the
// same outcome is a no-op.
func (uc *paymentUseCase) conclude(ctx context.Context, id string, outcome model.PaymentStatus) (*model.Payment, error) {
	var p *model.Payment
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("payment", id)
		}
		if p.Status == outcome {
			return nil
		}
		if p.Status != model.PaymentSimulated {
			return apperror.InvalidTransition("payment", p.Status, outcome)
		}
		p.Status = outcome
		p.UpdatedAt = time.Now()
		return uc.repo.UpdateStatus(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("payment", id)
	}
	return p, nil
}

func (uc *paymentUseCase) ListPayments(ctx context.Context, target model.PaymentTarget) ([]model.Payment, error) {
	if err := target.Validate(); err != nil {
		return nil, apperror.Validation("%v", err)
	}
	return uc.repo.ListByTarget(ctx, target)
}
