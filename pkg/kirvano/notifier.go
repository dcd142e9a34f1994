package kirvano

import "context"

// Notifier delivers operator-facing text notifications. Implementations
// are best-effort: the receiver logs failures and never lets them decide
// the HTTP status returned to Kirvano.
type Notifier interface {
	// Notify sends one message to the fixed admin destination.
	Notify(ctx context.Context, text string) error

	// Configured reports whether the notifier has everything it needs to
	// actually deliver. Unconfigured notifiers are skipped silently.
	Configured() bool
}

// NoopNotifier drops every notification. Used when no notifier is wired.
type NoopNotifier struct{}

func (NoopNotifier) Notify(_ context.Context, _ string) error { return nil }
func (NoopNotifier) Configured() bool                         { return false }
