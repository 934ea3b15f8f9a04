package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a@example.com"))
	}
	assert.False(t, rl.Allow("a@example.com"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("a@example.com"))
	assert.False(t, rl.Allow("a@example.com"))
	assert.True(t, rl.Allow("b@example.com"))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("a@example.com"))
	assert.False(t, rl.Allow("a@example.com"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("a@example.com"))
}
