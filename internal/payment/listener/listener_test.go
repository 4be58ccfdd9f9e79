package listener

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/payment/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs chan kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func event(t *testing.T, typ, id string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(PaymentEvent{EventType: typ, PaymentID: id, Timestamp: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestListenerAppliesOutcomes(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPaymentUseCase(store.Payments(), store, logger.NewNop())
	ctx := context.Background()

	settled, err := uc.Record(ctx, &dto.RecordPaymentInput{Target: model.ForOrder("o-1"), Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	failed, err := uc.Record(ctx, &dto.RecordPaymentInput{Target: model.ForOrder("o-2"), Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	l := NewPaymentListener(nil, uc, logger.NewNop())
	l.processMessage(ctx, event(t, EventPaymentSettled, settled.ID).Value)
	l.processMessage(ctx, event(t, EventPaymentFailed, failed.ID).Value)
	l.processMessage(ctx, event(t, EventPaymentSettled, "unknown").Value)
	l.processMessage(ctx, event(t, "PaymentAuthorized", settled.ID).Value)
	l.processMessage(ctx, []byte("{not json"))

	got, _ := store.Payments().FindByID(ctx, settled.ID)
	assert.Equal(t, model.PaymentCompleted, got.Status)
	got, _ = store.Payments().FindByID(ctx, failed.ID)
	assert.Equal(t, model.PaymentFailed, got.Status)
}

func TestListenerStopsOnCancel(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPaymentUseCase(store.Payments(), store, logger.NewNop())
	reader := &fakeReader{msgs: make(chan kafka.Message, 1)}

	p, err := uc.Record(context.Background(), &dto.RecordPaymentInput{Target: model.ForOrder("o-1"), Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	reader.msgs <- event(t, EventPaymentSettled, p.ID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewPaymentListener(reader, uc, logger.NewNop()).Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, _ := store.Payments().FindByID(context.Background(), p.ID)
		return got.Status == model.PaymentCompleted
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
