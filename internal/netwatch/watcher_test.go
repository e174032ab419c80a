package netwatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/netwatch"
)

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func newWatcher(p netwatch.Pinger, interval time.Duration) *netwatch.Watcher {
	return netwatch.NewWatcher(p, interval, logging.Default())
}

func TestStartsOffline(t *testing.T) {
	w := newWatcher(&fakePinger{}, time.Second)
	assert.False(t, w.IsOnline())
}

func TestTransitionsFireOnce(t *testing.T) {
	w := newWatcher(&fakePinger{}, time.Second)

	var calls []bool
	w.OnChange(func(online bool) { calls = append(calls, online) })

	w.SetOnline(true)
	w.SetOnline(true) // no transition
	w.SetOnline(false)
	w.SetOnline(true)

	assert.Equal(t, []bool{true, false, true}, calls)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	w := newWatcher(&fakePinger{}, time.Second)

	var calls int
	unsub := w.OnChange(func(bool) { calls++ })

	w.SetOnline(true)
	unsub()
	unsub()
	w.SetOnline(false)

	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribersSeeSameTransition(t *testing.T) {
	w := newWatcher(&fakePinger{}, time.Second)

	var a, b int
	w.OnChange(func(bool) { a++ })
	w.OnChange(func(bool) { b++ })

	w.SetOnline(true)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestRunProbesAndDetectsRecovery(t *testing.T) {
	p := &fakePinger{}
	p.fail.Store(true)
	w := newWatcher(p, 10*time.Millisecond)

	online := make(chan bool, 10)
	w.OnChange(func(v bool) { online <- v })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// first probes fail, then the gateway comes back
	time.Sleep(30 * time.Millisecond)
	assert.False(t, w.IsOnline())
	p.fail.Store(false)

	select {
	case v := <-online:
		require.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no online transition observed")
	}
	assert.True(t, w.IsOnline())
}
