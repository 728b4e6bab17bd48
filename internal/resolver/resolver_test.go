package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_ResolvesOncePerHost(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	next := Func(func(ctx context.Context, host string) (bool, error) {
		calls.Add(1)
		<-release
		return host == "go.dev", nil
	})
	memo := NewMemo(next)

	var wg sync.WaitGroup
	results := make([]bool, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := memo.Resolve(context.Background(), "go.dev")
			assert.NoError(t, err)
			results[i] = found
		}()
	}
	close(release)
	wg.Wait()

	for _, found := range results {
		assert.True(t, found)
	}
	found, err := memo.Resolve(context.Background(), "go.dev")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(1), calls.Load(), "host must be resolved exactly once")
	assert.Equal(t, 1, memo.Len())
}

func TestMemo_NotFoundIsRemembered(t *testing.T) {
	var calls int
	memo := NewMemo(Func(func(ctx context.Context, host string) (bool, error) {
		calls++
		return false, nil
	}))

	for range 3 {
		found, err := memo.Resolve(context.Background(), "gone.example")
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, 1, calls)

	found, ok := memo.Lookup("gone.example")
	assert.True(t, ok)
	assert.False(t, found)
}

func TestMemo_ErrorsAreNotRemembered(t *testing.T) {
	boom := errors.New("server misbehaving")
	memo := NewMemo(Func(func(ctx context.Context, host string) (bool, error) {
		return false, boom
	}))

	_, err := memo.Resolve(context.Background(), "flaky.example")
	assert.ErrorIs(t, err, boom)

	_, ok := memo.Lookup("flaky.example")
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "gone.example", IsNotFound: true}
	timeout := &net.DNSError{Err: "i/o timeout", Name: "slow.example", IsTimeout: true}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", notFound)))
	assert.False(t, IsNotFound(timeout))
	assert.False(t, IsNotFound(errors.New("other")))
}
