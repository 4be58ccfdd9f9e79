package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaNotifier publishes one message per notification, keyed by recipient so
// a recipient's messages stay ordered.
type KafkaNotifier struct {
	pub Publisher
}

func NewKafkaNotifier(pub Publisher) *KafkaNotifier {
	return &KafkaNotifier{pub: pub}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipient, template string, data map[string]interface{}) error {
	msg := Message{
		Recipient: recipient,
		Template:  template,
		Context:   data,
		CreatedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := n.pub.Publish(ctx, recipient, body); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
