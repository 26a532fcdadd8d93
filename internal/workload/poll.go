package workload

import (
	"context"
	"time"
)

// Poll refreshes the session every interval until ctx is done. fn receives
// the outcome of each cycle that actually ran; skipped and superseded
// cycles are not reported.
func (s *Session) Poll(ctx context.Context, interval time.Duration, fn func(*Snapshot, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := s.Refresh(ctx, TriggerPoll)
			if IsBenign(err) {
				continue
			}
			if fn != nil {
				fn(snap, err)
			}
		}
	}
}
