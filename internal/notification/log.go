package notification

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log. Used when no broker is
// configured.
type LogNotifier struct {
	logger logger.ZapLogger
}

func NewLogNotifier(log logger.ZapLogger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient, template string, data map[string]interface{}) error {
	n.logger.Info("notification", zap.String("recipient", recipient), zap.String("template", template), zap.Any("context", data))
	return nil
}
