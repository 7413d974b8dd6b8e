package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutIfAbsent_SecondInsertRejected(t *testing.T) {
	t.Parallel()
	c := New()
	ctx := context.Background()

	ok, err := c.PutIfAbsent(ctx, "u1", "t1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.PutIfAbsent(ctx, "u1", "t2", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	// The original entry is untouched.
	tok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "t1", tok)
}

func TestDeleteThenReinsert(t *testing.T) {
	t.Parallel()
	c := New()
	ctx := context.Background()

	ok, err := c.PutIfAbsent(ctx, "u1", "t1", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "u1"))

	ok, err = c.PutIfAbsent(ctx, "u1", "t2", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete_AbsentKeyIsNoop(t *testing.T) {
	t.Parallel()
	c := New()
	assert.NoError(t, c.Delete(context.Background(), "nobody"))
}

func TestGet_MissingAndExpired(t *testing.T) {
	t.Parallel()
	c := New()
	ctx := context.Background()

	tok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tok)

	ok, err := c.PutIfAbsent(ctx, "u1", "t1", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	tok, err = c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tok)

	// An expired entry no longer blocks a new login.
	ok, err = c.PutIfAbsent(ctx, "u1", "t2", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPutIfAbsent_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	c := New()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.PutIfAbsent(ctx, "u1", "t", time.Hour)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}
