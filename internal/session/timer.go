package session

import (
	"sync"
	"time"
)

// countdown calls onTick at a fixed rate until stopped. stop may be called any
// number of times and from inside onTick.
type countdown struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func startCountdown(interval time.Duration, onTick func()) *countdown {
	c := &countdown{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-c.done:
				return
			case <-c.ticker.C:
				onTick()
			}
		}
	}()
	return c
}

func (c *countdown) stop() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		c.ticker.Stop()
		close(c.done)
	})
}
