package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockCacheService struct {
	result any
	err    error
	calls  int
}

func (m *mockCacheService) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockCacheService) Delete(ctx context.Context, key string) error { return nil }

func (m *mockCacheService) DeleteByPrefix(ctx context.Context, prefix string) error { return nil }

func (m *mockCacheService) InvalidateKeys(ctx context.Context, keys []string) error { return nil }

func TestGetOrFetch_NilInterface(t *testing.T) {
	type Lister interface{ List() []string }
	mock := &mockCacheService{}

	result, err := GetOrFetch[Lister](context.Background(), mock, "k", func(ctx context.Context) (Lister, error) {
		return nil, nil
	})
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result but got: %v", result)
	}
}

func TestGetOrFetch_NilPointer(t *testing.T) {
	mock := &mockCacheService{result: (*string)(nil)}

	result, err := GetOrFetch[*string](context.Background(), mock, "k", func(ctx context.Context) (*string, error) {
		return nil, nil
	})
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result but got: %v", result)
	}
}

func TestGetOrFetch_TypeMismatch(t *testing.T) {
	mock := &mockCacheService{result: "wrong-type"}

	result, err := GetOrFetch[int](context.Background(), mock, "k", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType but got: %v", err)
	}
	if result != 0 {
		t.Errorf("expected zero value but got: %v", result)
	}
}

func TestGetOrFetch_Error(t *testing.T) {
	boom := errors.New("boom")
	mock := &mockCacheService{result: 7, err: boom}

	result, err := GetOrFetch[int](context.Background(), mock, "k", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected fetch error but got: %v", err)
	}
	if result != 0 {
		t.Errorf("expected zero value on error but got: %v", result)
	}
}

func TestGetOrFetch_WithSturdyc(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 10
	cfg.NumShards = 1
	cfg.TTL = time.Minute
	svc, err := NewCacheService(cfg, nil)
	if err != nil {
		t.Fatalf("failed to build cache: %v", err)
	}

	calls := 0
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"shoes"}, nil
	}
	for range 2 {
		got, err := GetOrFetch(context.Background(), svc, "ListCategories", fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0] != "shoes" {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single fetch, got %d", calls)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cfg.TTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for zero TTL")
	}

	cfg.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache should skip validation: %v", err)
	}
}

func TestRefreshContext(t *testing.T) {
	if RefreshRequested(context.Background()) {
		t.Error("plain context must not request a refresh")
	}
	if !RefreshRequested(WithRefresh(context.Background())) {
		t.Error("expected refresh to be requested")
	}
	//nolint:staticcheck // nil context is handled
	if !RefreshRequested(WithRefresh(nil)) {
		t.Error("WithRefresh should accept a nil context")
	}
}
