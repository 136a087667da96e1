package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers a transition to one operator channel. Delivery is
// best-effort from the monitor's perspective.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans one message out to every configured channel and aggregates
// whatever failed.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
