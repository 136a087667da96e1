package repo

import "context"

// IgnoreStore persists the set of domains excluded from monitoring.
// The monitor reads the live set once per cycle; edits made here take
// effect on the next cycle's snapshot, never the one in progress.
type IgnoreStore interface {
	Add(ctx context.Context, domain string) error
	Remove(ctx context.Context, domain string) error
	List(ctx context.Context) ([]string, error)
}
