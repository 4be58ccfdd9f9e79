package notification

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/user"
	"go.uber.org/zap"
)

const sendTimeout = 5 * time.Second

// Dispatcher resolves recipients and sends after the caller's transaction has
// committed. Failures are logged and never returned.
type Dispatcher struct {
	notifier Notifier
	users    user.Repository
	logger   logger.ZapLogger
}

func NewDispatcher(n Notifier, users user.Repository, log logger.ZapLogger) *Dispatcher {
	return &Dispatcher{notifier: n, users: users, logger: log}
}

func (d *Dispatcher) NotifyUser(ctx context.Context, userID, template string, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	u, err := d.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		d.logger.Warn("notification recipient not resolved",
			zap.String("user_id", userID), zap.String("template", template), zap.Error(err))
		return
	}
	d.send(ctx, u.Email, template, data)
}

func (d *Dispatcher) NotifyAdmins(ctx context.Context, template string, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		d.logger.Warn("failed to list admins for notification", zap.String("template", template), zap.Error(err))
		return
	}
	for _, a := range admins {
		d.send(ctx, a.Email, template, data)
	}
}

func (d *Dispatcher) send(ctx context.Context, recipient, template string, data map[string]interface{}) {
	if err := d.notifier.Notify(ctx, recipient, template, data); err != nil {
		d.logger.Warn("failed to send notification",
			zap.String("recipient", recipient), zap.String("template", template), zap.Error(err))
	}
}
