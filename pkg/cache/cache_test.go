package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(ttl time.Duration) (*Cache[string], *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ttl)
	c.now = clk.now
	return c, clk
}

func TestGetPut(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", "v")
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Put("k", "v")

	clk.t = clk.t.Add(time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry removed on read")
}

func TestDisabled(t *testing.T) {
	c, _ := newTestCache(0)
	c.Put("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Put("a", "1")
	c.Put("b", "2")

	c.Delete("a")
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestRemoveExpired(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Put("old", "1")
	clk.t = clk.t.Add(30 * time.Second)
	c.Put("new", "2")
	clk.t = clk.t.Add(45 * time.Second)

	c.removeExpired()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestStartCleaner_Stops(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.StartCleaner(time.Millisecond, stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
}
