package realtimebidding

import (
	"context"

	"rtbsamples/internal/metrics"
)

// Lister walks every page of a list call, handing each page's items to
// visit. The walk stops at the first error from the call or from visit.
type Lister[T any] func(ctx context.Context, visit func([]*T) error) error

// EachPage runs list, counting every page fetched for resource.
func EachPage[T any](ctx context.Context, resource string, list Lister[T], visit func([]*T) error) error {
	return list(ctx, func(items []*T) error {
		metrics.PagesFetched.WithLabelValues(resource).Inc()
		return visit(items)
	})
}

// Each calls fn for every item across all pages.
func Each[T any](ctx context.Context, resource string, list Lister[T], fn func(*T) error) error {
	return EachPage(ctx, resource, list, func(items []*T) error {
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	})
}

// All collects every item across all pages.
func All[T any](ctx context.Context, resource string, list Lister[T]) ([]*T, error) {
	var out []*T
	err := Each(ctx, resource, list, func(item *T) error {
		out = append(out, item)
		return nil
	})
	return out, err
}
