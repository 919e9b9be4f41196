package session

import (
	"sync"
	"time"
)

// countdown drives one attempt's once-per-second ticks on its own goroutine.
// It is the only autonomous activity in a session; everything else reacts to
// portal requests. Stop is idempotent, so a countdown can never fire into a
// destroyed or superseded attempt.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

// startCountdown calls onTick once per second until onTick returns false or
// Stop is called. onTick returning false means the attempt left the
// in-progress phases (expiry, submission, abandonment).
func startCountdown(clock Clock, onTick func() bool) *countdown {
	cd := &countdown{stop: make(chan struct{})}
	go func() {
		ticker := clock.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.C():
				if !onTick() {
					return
				}
			}
		}
	}()
	return cd
}

func (c *countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
