// Package notificationtest provides a Notifier that records messages.
package notificationtest

import (
	"context"
	"sync"

	"github.com/Emmanuel-365/chezflora-api/internal/notification"
)

type Recorder struct {
	mu       sync.Mutex
	messages []notification.Message
	Err      error
}

func (r *Recorder) Notify(ctx context.Context, recipient, template string, data map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, notification.Message{Recipient: recipient, Template: template, Context: data})
	return r.Err
}

func (r *Recorder) Messages() []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Sent returns the recipients of every message with the given template.
func (r *Recorder) Sent(template string) []string {
	var out []string
	for _, m := range r.Messages() {
		if m.Template == template {
			out = append(out, m.Recipient)
		}
	}
	return out
}
