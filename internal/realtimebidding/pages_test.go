package realtimebidding

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ints(vs ...int) []*int {
	out := make([]*int, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}
	return out
}

func fakePages(pages [][]*int, failAfter int) Lister[int] {
	return func(ctx context.Context, visit func([]*int) error) error {
		for i, p := range pages {
			if failAfter >= 0 && i == failAfter {
				return errors.New("fetch failed")
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		return nil
	}
}

func values(ps []*int) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = *p
	}
	return out
}

func TestAll_CollectsEveryPage(t *testing.T) {
	pages := [][]*int{ints(1, 2), ints(3), nil}

	got, err := All(context.Background(), "test", fakePages(pages, -1))
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, values(got)); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEach_StopsOnFetchError(t *testing.T) {
	pages := [][]*int{ints(1), ints(2)}

	var seen []int
	err := Each(context.Background(), "test", fakePages(pages, 1), func(i *int) error {
		seen = append(seen, *i)
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]int{1}, seen); diff != "" {
		t.Errorf("expected first page to be visited (-want +got):\n%s", diff)
	}
}

func TestEach_StopsOnVisitError(t *testing.T) {
	pages := [][]*int{ints(1, 2), ints(3)}
	stop := errors.New("stop")

	var seen []int
	err := Each(context.Background(), "test", fakePages(pages, -1), func(i *int) error {
		seen = append(seen, *i)
		if *i == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}
