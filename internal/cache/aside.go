package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer receives one event per cache outcome; *observability.Prom implements it.
type Observer interface {
	ObserveCache(space, result string)
}

type nopObserver struct{}

func (nopObserver) ObserveCache(string, string) {}

type Option func(*options)

type options struct {
	log         *slog.Logger
	obs         Observer
	loadTimeout time.Duration
}

// DefaultLoadTimeout bounds one shared load when no WithLoadTimeout is given.
const DefaultLoadTimeout = 5 * time.Second

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithLoadTimeout bounds the loader run shared by coalesced callers.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.obs = obs
		}
	}
}

// Aside is one key space of the cache-aside layer: every value it stores is
// a JSON-encoded T with the same TTL.
type Aside[T any] struct {
	store Store
	space string
	ttl   time.Duration
	log   *slog.Logger
	obs   Observer

	loadTimeout time.Duration

	// coalesces concurrent misses for one key inside this process
	group singleflight.Group
}

func NewAside[T any](store Store, space string, ttl time.Duration, opts ...Option) *Aside[T] {
	o := options{
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		obs:         nopObserver{},
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Aside[T]{
		store: store,
		space: space,
		ttl:   ttl,
		log:   o.log.With("cache_space", space),
		obs:   o.obs,

		loadTimeout: o.loadTimeout,
	}
}

// Get returns the cached value for key, or runs loader and caches its result.
// Loader errors are returned unchanged and never cached. A failing Store is
// logged and bypassed: the loader still runs but nothing is written back.
//
// Concurrent misses share one loader run. That run is detached from every
// caller's cancellation and bounded by the load timeout; a caller whose ctx
// ends returns ctx.Err() without failing the others.
func (a *Aside[T]) Get(ctx context.Context, key string, loader func(context.Context) (T, error)) (T, error) {
	v, ok, degraded := a.lookup(ctx, key)
	if ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := a.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(loadCtx, a.loadTimeout)
		defer cancel()

		loaded, err := loader(lctx)
		if err != nil {
			return loaded, err
		}

		if !degraded {
			_ = a.write(lctx, key, loaded)
		}
		return loaded, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			a.log.DebugContext(ctx, "cache load coalesced", "key", key)
		}
		out, _ := res.Val.(T)
		return out, res.Err
	}
}

// Set writes value through to the store. Failures are logged and returned;
// callers on a write path usually ignore them.
func (a *Aside[T]) Set(ctx context.Context, key string, value T) error {
	return a.write(ctx, key, value)
}

// Invalidate removes key so the next Get reloads it.
func (a *Aside[T]) Invalidate(ctx context.Context, key string) error {
	err := a.store.Delete(ctx, key)
	if err != nil {
		a.obs.ObserveCache(a.space, "error")
		a.log.WarnContext(ctx, "cache invalidate failed", "key", key, "err", err)
		return err
	}

	a.obs.ObserveCache(a.space, "invalidate")
	return nil
}

func (a *Aside[T]) lookup(ctx context.Context, key string) (v T, ok bool, degraded bool) {
	raw, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, ErrMiss):
		a.obs.ObserveCache(a.space, "miss")
		return v, false, false
	default:
		a.obs.ObserveCache(a.space, "error")
		a.log.WarnContext(ctx, "cache unavailable, reading through", "key", key, "err", err)
		return v, false, true
	}

	err = json.Unmarshal(raw, &v)
	if err != nil {
		// an undecodable entry is overwritten by the reload
		a.obs.ObserveCache(a.space, "miss")
		a.log.WarnContext(ctx, "cache entry undecodable", "key", key, "err", err)
		var zero T
		return zero, false, false
	}

	a.obs.ObserveCache(a.space, "hit")
	return v, true, false
}

func (a *Aside[T]) write(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		a.obs.ObserveCache(a.space, "set_error")
		return fmt.Errorf("cache encode %q: %w", key, err)
	}

	err = a.store.Set(ctx, key, data, a.ttl)
	if err != nil {
		a.obs.ObserveCache(a.space, "set_error")
		a.log.WarnContext(ctx, "cache write failed", "key", key, "err", err)
		return err
	}

	a.obs.ObserveCache(a.space, "set")
	return nil
}
