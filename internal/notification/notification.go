// Package notification is the outbound notification sink. Delivery (email,
// SMS) happens in a separate service that consumes the published messages.
package notification

import (
	"context"
	"time"
)

// Template identifiers understood by the delivery service.
const (
	TemplateOrderConfirmed        = "order_confirmed"
	TemplateOrderCancelled        = "order_cancelled"
	TemplateOrderStatusChanged    = "order_status_changed"
	TemplateSubscriptionCreated   = "subscription_created"
	TemplateSubscriptionOrder     = "subscription_order_generated"
	TemplateSubscriptionBilled    = "subscription_billed"
	TemplateSubscriptionCancelled = "subscription_cancelled"
	TemplateQuoteSubmitted        = "quote_submitted"
	TemplateQuoteAnswered         = "quote_answered"
	TemplateQuoteDecided          = "quote_decided"
	TemplateQuoteExpired          = "quote_expired"
	TemplateWorkshopEnrolled      = "workshop_enrolled"
	TemplateWorkshopWithdrawn     = "workshop_withdrawn"
	TemplateWorkshopCancelled     = "workshop_cancelled"
	TemplateLowStock              = "low_stock_alert"
)

type Message struct {
	Recipient string                 `json:"recipient"`
	Template  string                 `json:"template"`
	Context   map[string]interface{} `json:"context"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notifier is fire-and-forget from the caller's point of view: a returned
// error is only logged.
type Notifier interface {
	Notify(ctx context.Context, recipient, template string, data map[string]interface{}) error
}
