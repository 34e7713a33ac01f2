package cache

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// KeySerializer builds a cache key from a method name and its arguments.
// Keys must be stable for equal arguments and start with the method name so
// prefix invalidation can target one method.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the read-through cache the catalog decorator talks to.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// ErrInvalidResultType is returned when a cached entry does not hold the
// type the caller asked for, usually because two callers share a key.
var ErrInvalidResultType = goerrors.New("cached value has an unexpected type", goerrors.CategoryInternal).
	WithTextCode("CACHE_INVALID_RESULT_TYPE")

// GetOrFetch is the typed front of CacheService.GetOrFetch. A nil entry
// yields the zero value of T.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %s holds %T, want %T", ErrInvalidResultType, key, result, zero)
	}
	return typed, nil
}
