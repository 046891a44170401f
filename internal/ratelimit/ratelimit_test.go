package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1.0, 2)
	defer krl.Stop()

	assert.True(t, krl.Allow("token"))
	assert.True(t, krl.Allow("token"))
	assert.False(t, krl.Allow("token"), "burst exhausted")

	// Independent keys have independent buckets.
	assert.True(t, krl.Allow("profile"))
}

func TestWait_RespectsContext(t *testing.T) {
	krl := New(0.001, 1)
	defer krl.Stop()

	require.NoError(t, krl.Wait(context.Background(), "token"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := krl.Wait(ctx, "token")
	assert.Error(t, err, "second request must block past the deadline")
}

func TestStop_Idempotent(t *testing.T) {
	krl := New(1.0, 1)
	krl.Stop()
	krl.Stop()
}
