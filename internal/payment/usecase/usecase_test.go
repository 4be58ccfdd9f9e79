package usecase

import (
	"context"
	"testing"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (payment.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewPaymentUseCase(store.Payments(), store, logger.NewNop()), store
}

func record(t *testing.T, uc payment.UseCase, target model.PaymentTarget) *model.Payment {
	t.Helper()
	p, err := uc.Record(context.Background(), &dto.RecordPaymentInput{Target: target, ClientID: "c-1", Amount: decimal.RequireFromString("42.5")})
	require.NoError(t, err)
	return p
}

func TestRecordCreatesSimulatedPayment(t *testing.T) {
	uc, _ := setup(t)
	p := record(t, uc, model.ForOrder("o-1"))

	assert.Equal(t, model.PaymentSimulated, p.Status)
	assert.Equal(t, model.TargetOrder, p.Type)
	assert.Equal(t, "42.50", p.Amount.StringFixed(2))

	_, err := uc.Record(context.Background(), &dto.RecordPaymentInput{Target: model.PaymentTarget{Kind: "gift"}, Amount: decimal.NewFromInt(1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = uc.Record(context.Background(), &dto.RecordPaymentInput{Target: model.ForOrder("o-1"), Amount: decimal.NewFromInt(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestReverseDeletesSimulated(t *testing.T) {
	uc, store := setup(t)
	p := record(t, uc, model.ForOrder("o-1"))

	require.NoError(t, uc.Reverse(context.Background(), p, model.PaymentRefunded))

	got, _ := store.Payments().FindByID(context.Background(), p.ID)
	assert.Nil(t, got)
}

func TestReverseRefundsCompleted(t *testing.T) {
	uc, store := setup(t)
	p := record(t, uc, model.ForSubscription("s-1"))
	p, err := uc.Settle(context.Background(), p.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Reverse(context.Background(), p, model.PaymentPartiallyRefunded))

	got, _ := store.Payments().FindByID(context.Background(), p.ID)
	require.NotNil(t, got)
	assert.Equal(t, model.PaymentPartiallyRefunded, got.Status)
}

func TestReverseLeavesFailedAlone(t *testing.T) {
	uc, store := setup(t)
	p := record(t, uc, model.ForOrder("o-1"))
	p, err := uc.Fail(context.Background(), p.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Reverse(context.Background(), p, model.PaymentRefunded))
	got, _ := store.Payments().FindByID(context.Background(), p.ID)
	assert.Equal(t, model.PaymentFailed, got.Status)

	assert.Error(t, uc.Reverse(context.Background(), p, model.PaymentCompleted))
	assert.NoError(t, uc.Reverse(context.Background(), nil, model.PaymentRefunded))
}

func TestSettleTransitions(t *testing.T) {
	uc, _ := setup(t)
	p := record(t, uc, model.ForWorkshop("w-1"))

	settled, err := uc.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, settled.Status)

	again, err := uc.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, again.Status)

	_, err = uc.Fail(context.Background(), p.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	_, err = uc.Settle(context.Background(), "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestReverseLatestPicksMostRecentOfClient(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	first := record(t, uc, model.ForWorkshop("w-1"))
	_, err := uc.Settle(ctx, first.ID)
	require.NoError(t, err)
	second := record(t, uc, model.ForWorkshop("w-1"))

	got, err := uc.ReverseLatest(ctx, model.ForWorkshop("w-1"), "c-1", model.PaymentRefunded)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	gone, _ := store.Payments().FindByID(ctx, second.ID)
	assert.Nil(t, gone)
	kept, _ := store.Payments().FindByID(ctx, first.ID)
	assert.Equal(t, model.PaymentCompleted, kept.Status)

	none, err := uc.ReverseLatest(ctx, model.ForWorkshop("w-1"), "someone-else", model.PaymentRefunded)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestListPayments(t *testing.T) {
	uc, _ := setup(t)
	record(t, uc, model.ForOrder("o-1"))
	record(t, uc, model.ForOrder("o-1"))
	record(t, uc, model.ForOrder("o-2"))

	list, err := uc.ListPayments(context.Background(), model.ForOrder("o-1"))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.ListPayments(context.Background(), model.PaymentTarget{Kind: model.TargetOrder})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
