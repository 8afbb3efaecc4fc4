// Package notify defines the notification boundary and its
// implementations for stock alert delivery.
package notify

import "context"

// Notifier delivers a formatted message to a channel. Delivery is
// fire-and-forget from the engine's point of view: failures are logged by
// the caller, never fatal.
type Notifier interface {
	Send(ctx context.Context, channelID, text string) error
}
