// Package netwatch tracks gateway reachability with a periodic probe.
package netwatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/logging"
)

const probeTimeout = 3 * time.Second

// Pinger is the reachability probe. The gateway client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher polls the Pinger and notifies subscribers on transitions.
// Callbacks run sequentially on the probe goroutine, so each subscriber
// sees transitions in order and never twice for the same state.
type Watcher struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu     sync.Mutex
	nextID int
	subs   map[int]func(online bool)
}

func NewWatcher(pinger Pinger, interval time.Duration, log logging.Logger) *Watcher {
	return &Watcher{
		pinger:   pinger,
		interval: interval,
		log:      log,
		subs:     make(map[int]func(online bool)),
	}
}

// IsOnline reports the last observed state. Starts as offline until the
// first successful probe.
func (w *Watcher) IsOnline() bool {
	return w.online.Load()
}

// OnChange registers a transition callback. The returned function
// unsubscribes; calling it more than once is harmless.
func (w *Watcher) OnChange(fn func(online bool)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Run probes immediately and then on every tick until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.probe(ctx)

	for {
		select {
		case <-ticker.C:
			w.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := w.pinger.Ping(ctx)
	cancel()

	w.SetOnline(err == nil)
}

// SetOnline records the state and fires callbacks on transition.
// Exported for the probe loop and for tests that inject transitions.
func (w *Watcher) SetOnline(online bool) {
	if w.online.Swap(online) == online {
		return
	}

	ctx := context.Background()
	if online {
		w.log.Info(ctx, "gateway reachable")
	} else {
		w.log.Warn(ctx, "gateway unreachable, switching to offline mode")
	}

	w.mu.Lock()
	fns := make([]func(bool), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}
