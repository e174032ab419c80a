// Package completion serves generation results through a persistent TTL
// cache, collapsing concurrent identical requests into one backend call.
package completion

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/dockeeper/internal/cache"
	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/models"
)

type Service struct {
	backend Backend
	cache   *cache.Cache
	group   singleflight.Group
	log     logging.Logger
}

func NewService(backend Backend, cache *cache.Cache, log logging.Logger) *Service {
	return &Service{backend: backend, cache: cache, log: log}
}

// Generate returns the completion for req, from cache when possible.
// Concurrent calls with the same normalized request share one backend
// call. If the caller's ctx is canceled before the shared call finishes,
// the key is forgotten so the next identical request starts fresh.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	req = req.Normalize()
	key := req.Key()

	value, err := s.cache.Get(ctx, key)
	if err == nil {
		s.log.Debug(ctx, "completion cache hit", "key", key)
		return string(value), nil
	}
	if !errors.Is(err, common.ErrCacheMiss) {
		return "", err
	}

	ch := s.group.DoChan(key, func() (any, error) {
		text, err := s.backend.Complete(context.WithoutCancel(ctx), req)
		if err != nil {
			return "", err
		}
		if err := s.cache.Set(context.WithoutCancel(ctx), key, []byte(text)); err != nil {
			s.log.Warn(ctx, "failed to cache completion", "key", key, "error", err)
		}
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		s.group.Forget(key)
		return "", ctx.Err()
	}
}

// Clear drops every cached completion.
func (s *Service) Clear(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Stats reports cache size including rows past expiry that are still
// waiting for eviction.
func (s *Service) Stats(ctx context.Context) (models.CacheStats, error) {
	return s.cache.Stats(ctx)
}
