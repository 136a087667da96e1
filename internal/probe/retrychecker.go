package probe

import (
	"context"
	"time"
)

// RetryChecker resolves a domain's health for one cycle: a success on any
// attempt wins immediately, otherwise up to Attempts probes run separated
// by a fixed Delay. Both the delay and the probes abort on ctx cancellation.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Delay    time.Duration
}

// Resolution is the final word on a domain for one cycle.
type Resolution struct {
	Final    Outcome
	Attempts int // probes actually issued
}

// Resolve runs the retry series. A non-nil error means the series was
// cancelled; the partial resolution must not be applied to tracked state.
func (r *RetryChecker) Resolve(ctx context.Context, domain string) (Resolution, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var res Resolution
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Final = r.Inner.Check(ctx, domain)
		res.Attempts++
		if res.Final.Healthy() {
			return res, nil
		}
		// A probe that failed because the cycle was torn down under it is
		// not a real observation.
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i < attempts-1 {
			t := time.NewTimer(r.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return res, ctx.Err()
			case <-t.C:
			}
		}
	}
	return res, nil
}
