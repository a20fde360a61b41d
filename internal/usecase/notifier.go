package usecase

import "context"

// Notifier pushes human-readable updates to the league chat. Implementations
// must be safe for concurrent use; failures are reported but never block the
// standings pipeline.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NopNotifier discards every message. Used when no relay is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }
