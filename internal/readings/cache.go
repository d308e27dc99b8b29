package readings

import (
	"sync"

	"airwatch/internal/models"
)

// Cache holds the single most recent sensor reading. Writes replace the
// whole value, so a reader never observes a half-written snapshot.
type Cache struct {
	mu      sync.RWMutex
	current models.Reading
}

func NewCache() *Cache {
	return &Cache{}
}

// Set replaces the stored reading. Safe under concurrent calls;
// last writer wins.
func (c *Cache) Set(r models.Reading) {
	c.mu.Lock()
	c.current = r
	c.mu.Unlock()
}

// Get returns the last stored reading, or the zero Reading
// (Timestamp.IsZero()) if nothing has arrived yet.
func (c *Cache) Get() models.Reading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
