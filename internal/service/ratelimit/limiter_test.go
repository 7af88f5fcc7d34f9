package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(capacity, rate float64) (*Limiter, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(capacity, rate)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	l, now := newTestLimiter(2, 1)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	*now = now.Add(500 * time.Millisecond)
	assert.False(t, l.Allow("a"))

	*now = now.Add(500 * time.Millisecond)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 0)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestLimiter_RefillCapped(t *testing.T) {
	l, now := newTestLimiter(2, 10)
	assert.True(t, l.Allow("a"))
	*now = now.Add(time.Hour)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestLimiter_Prune(t *testing.T) {
	l, now := newTestLimiter(1, 0)
	assert.True(t, l.Allow("a"))
	*now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("b"))

	assert.Equal(t, 1, l.Prune(time.Minute))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("b"))
}
