package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidAuthRateLimiter(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()

	for i := 0; i < maxInvalidAttempts; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d within limit", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "attempt over the limit")

	// Other sources are tracked independently.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestInvalidAuthRateLimiterWindowReset(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()

	for i := 0; i < maxInvalidAttempts; i++ {
		rl.Allow("10.0.0.1")
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Age the window out manually instead of sleeping a full minute.
	rl.mu.Lock()
	rl.failures["10.0.0.1"].startAt = rl.failures["10.0.0.1"].startAt.Add(-2 * attemptWindow)
	rl.mu.Unlock()

	assert.True(t, rl.Allow("10.0.0.1"))
}
