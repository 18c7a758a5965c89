package catalog

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeFetcher struct {
	calls int64
	delay map[string]time.Duration
}

func (f *fakeFetcher) FetchByCategory(ctx context.Context, category string) []MovieSummary {
	atomic.AddInt64(&f.calls, 1)
	if d := f.delay[category]; d > 0 {
		time.Sleep(d)
	}
	if category == "upcoming" {
		return []MovieSummary{}
	}
	return []MovieSummary{{ID: len(category), Title: category}}
}

func TestLoadCategories_PreservesRequestOrder(t *testing.T) {
	f := &fakeFetcher{delay: map[string]time.Duration{"popular": 30 * time.Millisecond}}
	cats := []string{"popular", "now_playing", "upcoming"}

	results := LoadCategories(context.Background(), f, cats, 3)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range cats {
		if results[i].Category != want {
			t.Errorf("results[%d].Category = %q, want %q", i, results[i].Category, want)
		}
	}
	if len(results[0].Movies) != 1 || len(results[2].Movies) != 0 {
		t.Errorf("unexpected movies: %+v", results)
	}
	if f.calls != 3 {
		t.Errorf("expected 3 fetches, got %d", f.calls)
	}
}

func TestLoadCategories_ZeroWorkers(t *testing.T) {
	f := &fakeFetcher{}
	// workers=0 should be clamped to 1
	results := LoadCategories(context.Background(), f, []string{"popular"}, 0)
	if len(results) != 1 || results[0].Category != "popular" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestLoadCategories_EmptyInput(t *testing.T) {
	f := &fakeFetcher{}
	results := LoadCategories(context.Background(), f, nil, 4)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
	if f.calls != 0 {
		t.Errorf("fetcher should not be called for empty input, got %d calls", f.calls)
	}
}

func TestLoadCategories_CancelledContext(t *testing.T) {
	f := &fakeFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := LoadCategories(ctx, f, []string{"popular", "now_playing"}, 2)
	for _, r := range results {
		if r.Movies == nil || len(r.Movies) != 0 {
			t.Errorf("expected empty movies for %s, got %+v", r.Category, r.Movies)
		}
	}
	if f.calls != 0 {
		t.Errorf("expected no fetches after cancellation, got %d", f.calls)
	}
}
