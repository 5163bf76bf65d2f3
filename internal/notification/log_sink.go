package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/logger"
)

// LogSink writes messages to the service log. Used when no message broker is configured.
type LogSink struct{}

// NewLogSink creates a log sink
func NewLogSink() Sink {
	return &LogSink{}
}

func (s *LogSink) Send(ctx context.Context, msg Message) error {
	logger.InfoCtx(ctx, "outgoing message",
		zap.String("kind", string(msg.Kind)),
		zap.Int64("from_user_id", msg.FromUserID),
		zap.Int64("to_user_id", msg.ToUserID),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
