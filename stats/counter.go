package stats

import (
	"sync"
	"time"
)

type counter struct {
	mu       sync.Mutex
	start    time.Time
	stop     time.Time
	ok       int64
	failed   int64
	vertices int64
}

func newCounter() *counter {
	return &counter{start: time.Now()}
}

func (c *counter) add(result string, vertices int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if result == ResultOK {
		c.ok++
		c.vertices += int64(vertices)
	} else {
		c.failed++
	}
	c.stop = time.Now()
}

func (c *counter) values() (ok, failed, vertices int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ok, c.failed, c.vertices
}

// rate returns the vertices per second between the start and the last
// recorded track.
func (c *counter) rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.stop.Sub(c.start).Seconds()
	if d <= 0 {
		return 0
	}
	return float64(c.vertices) / d
}
