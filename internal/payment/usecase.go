package payment

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
)

// UseCase is the payment stub: it records transactions, it settles nothing.
// Record and Reverse join the caller's transaction.
type UseCase interface {
	Record(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, error)
	// Reverse deletes a simulated payment and moves a completed one to
	// refundStatus. Other statuses are left untouched.
	Reverse(ctx context.Context, p *model.Payment, refundStatus model.PaymentStatus) error
	// ReverseLatest reverses the most recent payment of target made by
	// clientID (any client when empty). It returns nil when there is none.
	ReverseLatest(ctx context.Context, target model.PaymentTarget, clientID string, refundStatus model.PaymentStatus) (*model.Payment, error)
	ListPayments(ctx context.Context, target model.PaymentTarget) ([]model.Payment, error)
	Settle(ctx context.Context, id string) (*model.Payment, error)
	Fail(ctx context.Context, id string) (*model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
}
