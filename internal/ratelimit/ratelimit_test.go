package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives a Keyed limiter without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(perSecond float64, burst int) (*Keyed, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
	k := New(perSecond, burst)
	k.now = clock.now
	return k, clock
}

func TestKeyed_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 3, 3, 3},
		{"exceeding burst blocks", 2, 5, 2},
		{"single token", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, _ := newTestLimiter(1, tt.burst)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if k.Allow("sarah@example.com") {
					passed++
				}
			}

			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyed_Refills(t *testing.T) {
	k, clock := newTestLimiter(0.5, 1)

	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))

	clock.advance(time.Second)
	assert.False(t, k.Allow("a"), "half a token is not enough")

	clock.advance(time.Second)
	assert.True(t, k.Allow("a"))
}

func TestKeyed_IndependentKeys(t *testing.T) {
	k, _ := newTestLimiter(1, 1)

	k.Allow("key1")
	assert.False(t, k.Allow("key1"), "key1 should be exhausted")
	assert.True(t, k.Allow("key2"), "key2 should be independent and allowed")
}

func TestKeyed_Reset(t *testing.T) {
	k, _ := newTestLimiter(0.01, 1)

	k.Allow("a")
	assert.False(t, k.Allow("a"))

	k.Reset("a")
	assert.True(t, k.Allow("a"))
}

func TestKeyed_Prune(t *testing.T) {
	k, clock := newTestLimiter(1, 1)

	k.Allow("old")
	clock.advance(10 * time.Minute)
	k.Allow("fresh")

	assert.Equal(t, 1, k.Prune(5*time.Minute))
	assert.Equal(t, 1, k.Len())
}
