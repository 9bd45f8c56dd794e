package clock

import (
	"context"
	"time"
)

// Run calls frame once per interval with the wall-clock delta in seconds
// until ctx is done or frame returns false.
func Run(ctx context.Context, interval time.Duration, frame func(dt float64) bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if !frame(dt) {
				return nil
			}
		}
	}
}
