package catalogcache

import (
	"context"
	"slices"
	"strings"
)

type cacheTagsContextKey struct{}

// WithCacheTags attaches tags to ctx. Reads made with the returned context
// are indexed under each tag for InvalidateTag.
func WithCacheTags(ctx context.Context, tags ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	combined := dedupeStrings(append(cacheTagsFromContext(ctx), tags...))
	if len(combined) == 0 {
		return ctx
	}
	return context.WithValue(ctx, cacheTagsContextKey{}, combined)
}

func cacheTagsFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if tags, ok := ctx.Value(cacheTagsContextKey{}).([]string); ok {
		return slices.Clone(tags)
	}
	return nil
}

// dedupeStrings trims, drops empty values and keeps first occurrences.
func dedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
