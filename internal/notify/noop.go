package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded messages. It is
// used when no bot token is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards messages with a log
// message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards a message.
func (n *NoOpNotifier) Send(_ context.Context, channelID, text string) error {
	n.log.Debug("notification discarded (no backend configured)",
		"channel", channelID,
		"length", len(text),
	)
	return nil
}
