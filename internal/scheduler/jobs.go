package scheduler

import (
	"github.com/Emmanuel-365/chezflora-api/config"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription"
)

// RegisterDefaults wires the four business jobs with their configured periods.
func (s *Scheduler) RegisterDefaults(cfg config.SchedulerConfig, subs subscription.UseCase, quotes quote.UseCase, products catalog.UseCase) {
	s.Register(Job{Name: JobSubscriptionDeliveries, Interval: cfg.DeliveryInterval, Run: subs.RunDeliveries})
	s.Register(Job{Name: JobSubscriptionBilling, Interval: cfg.BillingInterval, Run: subs.RunBilling})
	s.Register(Job{Name: JobQuoteExpiry, Interval: cfg.QuoteExpiryInterval, Run: quotes.ExpireOverdue})
	s.Register(Job{Name: JobLowStockAlert, Interval: cfg.LowStockInterval, Run: products.NotifyLowStock})
}
