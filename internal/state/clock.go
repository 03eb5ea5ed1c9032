package state

import "sync"

// Clock is a monotonic revision counter. A board ticks it once per
// committed mutation so observers can order the snapshots they receive.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Update moves the clock forward to at least rev.
func (c *Clock) Update(rev uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rev > c.counter {
		c.counter = rev
	}
}

// Now returns the current value without advancing it.
func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}
