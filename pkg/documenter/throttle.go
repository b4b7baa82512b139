package documenter

import (
	"context"
	"time"
)

// Throttle enforces a minimum pause between consecutive dataset
// queries, out of politeness to the portal and the archive. The batch
// loop is sequential, so one last-request timestamp is enough.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle. A zero or negative interval disables
// the pause entirely.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Wait blocks until the interval since the previous Wait has elapsed.
// The first call never blocks. Returns the context error when
// cancelled mid-pause.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.interval > 0 && !t.last.IsZero() {
		if remaining := t.interval - time.Since(t.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	t.last = time.Now()
	return nil
}
