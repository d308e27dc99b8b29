package readings

import (
	"sync"
	"testing"
	"time"

	"airwatch/internal/models"
)

func TestCacheGetBeforeSet(t *testing.T) {
	c := NewCache()
	r := c.Get()
	if !r.Timestamp.IsZero() {
		t.Errorf("Get() before Set() = %+v, want zero Reading", r)
	}
}

func TestCacheKeepsLatest(t *testing.T) {
	c := NewCache()

	first := models.Reading{PM25: 10, Timestamp: time.Now()}
	second := models.Reading{PM25: 20, Timestamp: time.Now()}
	c.Set(first)
	c.Set(second)

	if got := c.Get(); got.PM25 != 20 {
		t.Errorf("Get() = %+v, want the latest reading", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v float64) {
			defer wg.Done()
			c.Set(models.Reading{PM25: v, Timestamp: time.Now()})
		}(float64(i))
		go func() {
			defer wg.Done()
			_ = c.Get()
		}()
	}
	wg.Wait()

	if c.Get().Timestamp.IsZero() {
		t.Error("Get() after concurrent writes = zero Reading")
	}
}
