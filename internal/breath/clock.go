package breath

import (
	"sync"
	"time"
)

// Clock delivers ticks to a Driver.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

// TickerClock is a Clock backed by a [time.Ticker].
type TickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock starts a ticker firing every d.
func NewTickerClock(d time.Duration) *TickerClock {
	return &TickerClock{ticker: time.NewTicker(d)}
}

func (c *TickerClock) C() <-chan time.Time { return c.ticker.C }
func (c *TickerClock) Stop()               { c.ticker.Stop() }

// ManualClock delivers ticks only when Advance is called.
type ManualClock struct {
	ch   chan time.Time
	done chan struct{}
	once sync.Once
	mu   sync.Mutex
	now  time.Time
}

// NewManualClock creates a clock whose first tick is one second after start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{ch: make(chan time.Time), done: make(chan struct{}), now: start}
}

func (c *ManualClock) C() <-chan time.Time { return c.ch }

// Advance sends n ticks one second apart, blocking until each is received.
// It returns the number delivered, which is less than n once the clock is stopped.
func (c *ManualClock) Advance(n int) int {
	for i := range n {
		c.mu.Lock()
		c.now = c.now.Add(time.Second)
		now := c.now
		c.mu.Unlock()

		select {
		case c.ch <- now:
		case <-c.done:
			return i
		}
	}
	return n
}

// Stop makes pending and future Advance calls return.
func (c *ManualClock) Stop() {
	c.once.Do(func() { close(c.done) })
}
