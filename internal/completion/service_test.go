package completion_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/cache"
	"github.com/dmitrijs2005/dockeeper/internal/completion"
	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

type fakeBackend struct {
	calls atomic.Int32
	block chan struct{} // when set, Complete waits for it to close
	text  string
}

func (b *fakeBackend) Complete(ctx context.Context, req completion.Request) (string, error) {
	b.calls.Add(1)
	if b.block != nil {
		select {
		case <-b.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return b.text, nil
}

type backendFunc func(ctx context.Context, req completion.Request) (string, error)

func (f backendFunc) Complete(ctx context.Context, req completion.Request) (string, error) {
	return f(ctx, req)
}

func setupService(t *testing.T, backend completion.Backend) *completion.Service {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return completion.NewService(backend, cache.New(st.Cache, 24*time.Hour), logging.Default())
}

func TestKeyNormalization(t *testing.T) {
	a := completion.Request{Prompt: "  summarize this  ", Language: "EN"}
	b := completion.Request{Prompt: "summarize this", Language: "en", MaxTokens: 1024}
	assert.Equal(t, a.Key(), b.Key())

	c := completion.Request{Prompt: "summarize this", Language: "de"}
	assert.NotEqual(t, a.Key(), c.Key())

	assert.Regexp(t, `^gen_[0-9a-f]{16}$`, a.Key())
}

func TestGenerateCachesResult(t *testing.T) {
	backend := &fakeBackend{text: "answer"}
	svc := setupService(t, backend)
	ctx := context.Background()

	req := completion.Request{Prompt: "q"}

	got, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	got, err = svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestConcurrentIdenticalRequestsCoalesce(t *testing.T) {
	backend := &fakeBackend{text: "answer", block: make(chan struct{})}
	svc := setupService(t, backend)

	const waiters = 5
	var wg sync.WaitGroup
	results := make([]string, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Generate(context.Background(), completion.Request{Prompt: "same"})
		}(i)
	}

	// let every waiter reach the in-flight call before releasing it
	require.Eventually(t, func() bool {
		return backend.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(backend.block)
	wg.Wait()

	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "answer", results[i])
	}
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestCanceledCallerForgetsKey(t *testing.T) {
	var calls atomic.Int32
	block := make(chan struct{})
	backend := backendFunc(func(ctx context.Context, req completion.Request) (string, error) {
		// the abandoned first call fails once released, so it never
		// populates the cache behind the test's back
		if calls.Add(1) == 1 {
			<-block
			return "", context.Canceled
		}
		return "answer", nil
	})
	svc := setupService(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(ctx, completion.Request{Prompt: "slow"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	close(block)

	// the key was forgotten, so a fresh request triggers a new call
	got, err := svc.Generate(context.Background(), completion.Request{Prompt: "slow"})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDistinctRequestsDoNotCoalesce(t *testing.T) {
	backend := &fakeBackend{text: "answer"}
	svc := setupService(t, backend)
	ctx := context.Background()

	_, err := svc.Generate(ctx, completion.Request{Prompt: "one"})
	require.NoError(t, err)
	_, err = svc.Generate(ctx, completion.Request{Prompt: "two"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), backend.calls.Load())
}
