package resource

import (
	"context"
	"fmt"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/reactive"
)

// CodeFetchPanic marks the error stored when a fetch function panics.
const CodeFetchPanic = "RESOURCE_FETCH_PANIC"

// FetchFunc loads the value for key. It runs off the owner goroutine and
// must not touch reactive state.
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Snapshot is a consistent copy of a resource's state.
type Snapshot[K comparable, V any] struct {
	Status     Status
	Value      V
	Err        error
	Key        K
	HasKey     bool
	Generation uint64
}

// Resource is an async value bound to a reactive key.
type Resource[K comparable, V any] struct {
	rt     *reactive.Runtime
	name   string
	logger *slog.Logger
	keyFn  func() (K, bool)
	fetch  FetchFunc[K, V]

	status *reactive.Cell[Status]
	value  *reactive.Cell[V]
	err    *reactive.Cell[error]

	key        K
	hasKey     bool
	generation uint64
	cancel     context.CancelFunc
	watcher    *reactive.Effect
	destroyed  bool
}

// New creates a resource and evaluates keyFn immediately. While keyFn
// reports ok=false the resource stays Idle and fetch is not called.
func New[K comparable, V any](rt *reactive.Runtime, keyFn func() (K, bool), fetch FetchFunc[K, V], opts ...Option) *Resource[K, V] {
	s := settings{name: "resource"}
	for _, opt := range opts {
		opt(&s)
	}
	logger := s.logger
	if logger == nil {
		logger = rt.Logger()
	}

	var initial V
	if v, ok := s.initial.(V); ok {
		initial = v
	}

	r := &Resource[K, V]{
		rt:     rt,
		name:   s.name,
		logger: logger.With("resource", s.name),
		keyFn:  keyFn,
		fetch:  fetch,
		status: reactive.NewCell(rt, Idle, reactive.WithName[Status](s.name+".status")),
		value:  reactive.NewCell(rt, initial, reactive.WithName[V](s.name+".value")),
		err:    reactive.NewCell[error](rt, nil, reactive.WithName[error](s.name+".err")),
	}

	r.watcher = reactive.NewNamedEffect(rt, s.name+".key", func() {
		key, ok := r.keyFn()
		rt.Untracked(func() { r.onKey(key, ok) })
	})
	return r
}

// Static returns a key function that always yields k. It suits resources
// that fetch once and have no parameters.
func Static[K comparable](k K) func() (K, bool) {
	return func() (K, bool) { return k, true }
}

func (r *Resource[K, V]) onKey(key K, ok bool) {
	if !ok {
		if !r.hasKey {
			return
		}
		var zeroKey K
		var zero V
		r.key, r.hasKey = zeroKey, false
		r.supersede()
		r.generation++
		r.rt.Batch(func() {
			r.value.Set(zero)
			r.err.Set(nil)
			r.status.Set(Idle)
		})
		r.logger.Debug("key cleared", "generation", r.generation)
		return
	}

	if r.hasKey && r.key == key {
		return
	}
	r.key, r.hasKey = key, true
	r.start(false)
}

// start begins a new generation for the current key.
func (r *Resource[K, V]) start(refresh bool) {
	r.supersede()
	r.generation++
	gen, key := r.generation, r.key

	ctx, cancel := context.WithCancel(r.rt.Context())
	r.cancel = cancel
	if refresh {
		ctx = cache.WithRefresh(ctx)
	}

	r.rt.Batch(func() {
		r.err.Set(nil)
		r.status.Set(Loading)
	})
	r.logger.Debug("fetch started", "key", key, "generation", gen, "refresh", refresh)

	started := r.rt.Go(ctx, func(ctx context.Context) func() {
		v, err := r.invoke(ctx, key)
		return func() { r.settle(gen, v, err) }
	})
	if !started {
		cancel()
		r.logger.Debug("runtime closed, fetch not started", "generation", gen)
	}
}

func (r *Resource[K, V]) invoke(ctx context.Context, key K) (v V, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = goerrors.New(fmt.Sprintf("resource %s: fetch panicked: %v", r.name, p), goerrors.CategoryInternal).
				WithTextCode(CodeFetchPanic)
		}
	}()
	return r.fetch(ctx, key)
}

func (r *Resource[K, V]) settle(gen uint64, v V, err error) {
	if r.destroyed || gen != r.generation {
		r.logger.Debug("stale result discarded", "generation", gen, "current", r.generation)
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	if err != nil {
		r.logger.Warn("fetch failed", "key", r.key, "generation", gen, "error", err)
		r.err.Set(err)
		r.status.Set(Error)
		return
	}
	r.value.Set(v)
	r.status.Set(Resolved)
	r.logger.Debug("fetch resolved", "key", r.key, "generation", gen)
}

func (r *Resource[K, V]) supersede() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Reload fetches the current key again. It returns false when there is no
// key or the resource was destroyed. Caches in front of the fetch are asked
// to refresh through cache.WithRefresh.
func (r *Resource[K, V]) Reload() bool {
	if r.destroyed || !r.hasKey {
		return false
	}
	r.start(true)
	return true
}

// Reset sets the value to v and the status to Idle, superseding any fetch
// in flight.
func (r *Resource[K, V]) Reset(v V) {
	if r.destroyed {
		return
	}
	r.supersede()
	r.generation++
	r.rt.Batch(func() {
		r.value.Set(v)
		r.err.Set(nil)
		r.status.Set(Idle)
	})
	r.logger.Debug("reset", "generation", r.generation)
}

// Destroy stops watching the key. Results settling afterwards are ignored.
// The last state stays readable.
func (r *Resource[K, V]) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.watcher.Stop()
	r.supersede()
	r.status.Dispose()
	r.value.Dispose()
	r.err.Dispose()
}

// Destroyed reports whether Destroy was called.
func (r *Resource[K, V]) Destroyed() bool {
	return r.destroyed
}

// Status returns the current status. The read is tracked.
func (r *Resource[K, V]) Status() Status {
	return r.status.Get()
}

// Value returns the last applied value. While loading it still holds the
// previous value. The read is tracked.
func (r *Resource[K, V]) Value() V {
	return r.value.Get()
}

// Err returns the error of the last failed fetch. The read is tracked.
func (r *Resource[K, V]) Err() error {
	return r.err.Get()
}

// Generation returns the number of the latest generation issued.
func (r *Resource[K, V]) Generation() uint64 {
	return r.generation
}

// Key returns the key of the current generation.
func (r *Resource[K, V]) Key() (K, bool) {
	return r.key, r.hasKey
}

// Snapshot reads every field without tracking.
func (r *Resource[K, V]) Snapshot() Snapshot[K, V] {
	return Snapshot[K, V]{
		Status:     r.status.Peek(),
		Value:      r.value.Peek(),
		Err:        r.err.Peek(),
		Key:        r.key,
		HasKey:     r.hasKey,
		Generation: r.generation,
	}
}
