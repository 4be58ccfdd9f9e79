package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventPaymentSettled = "PaymentSettled"
	EventPaymentFailed  = "PaymentFailed"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// PaymentListener applies the outcome events published by the payment
// gateway simulator.
type PaymentListener struct {
	consumer MessageReader
	uc       payment.UseCase
	logger   logger.ZapLogger
}

func NewPaymentListener(consumer MessageReader, uc payment.UseCase, logger logger.ZapLogger) *PaymentListener {
	return &PaymentListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *PaymentListener) Start(ctx context.Context) {
	l.logger.Info("Starting Payment Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Payment Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type PaymentEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	PaymentID string    `json:"payment_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (l *PaymentListener) processMessage(ctx context.Context, value []byte) {
	var event PaymentEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal payment event", zap.Error(err))
		return
	}

	var err error
	switch event.EventType {
	case EventPaymentSettled:
		_, err = l.uc.Settle(ctx, event.PaymentID)
	case EventPaymentFailed:
		_, err = l.uc.Fail(ctx, event.PaymentID)
	default:
		return
	}

	if err != nil {
		// a payment deleted by a cancellation may still receive its outcome
		if apperror.Is(err, apperror.KindNotFound) || apperror.Is(err, apperror.KindInvalidTransition) {
			l.logger.Warn("Ignoring payment event",
				zap.String("event_type", event.EventType),
				zap.String("payment_id", event.PaymentID),
				zap.Error(err),
			)
			return
		}
		l.logger.Error("Failed to apply payment event",
			zap.String("event_type", event.EventType),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Applied payment event", zap.String("event_type", event.EventType), zap.String("payment_id", event.PaymentID))
}
