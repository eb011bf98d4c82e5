package browser

import (
	"context"
	"sync"
	"time"
)

// DefaultSearchInterval is the minimum gap between two outbound searches
const DefaultSearchInterval = 350 * time.Millisecond

// Spacer hands out send times at least interval apart. It is a delay, not a limiter:
// there is no queue bound and no backoff.
type Spacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSpacer creates a spacer enforcing interval between consecutive Wait calls
func NewSpacer(interval time.Duration) *Spacer {
	return &Spacer{
		interval: max(interval, 0),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Interval returns the configured minimum gap
func (s *Spacer) Interval() time.Duration {
	return s.interval
}

// Wait blocks until the caller may send and returns the recorded send time. The slot
// is reserved before sleeping, so overlapping callers are spaced as well. A cancelled
// wait gives its slot back when no later caller has reserved one. A sleep that wakes
// late records the wake time, so the next caller is spaced from the actual send.
func (s *Spacer) Wait(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	now := s.now()
	at := now
	if !s.last.IsZero() {
		if next := s.last.Add(s.interval); next.After(now) {
			at = next
		}
	}
	previous := s.last
	s.last = at
	s.mu.Unlock()

	wait := at.Sub(now)
	if wait <= 0 {
		return at, nil
	}

	err := s.sleep(ctx, wait)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.last.Equal(at) {
			s.last = previous
		}
		return time.Time{}, err
	}

	sent := s.now()
	if !sent.After(at) {
		return at, nil
	}
	if s.last.Equal(at) {
		s.last = sent
	}
	return sent, nil
}

// Last returns the most recently recorded send time
func (s *Spacer) Last() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
