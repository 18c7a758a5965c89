package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/theme"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "movies.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := Open(filepath.Join(dir, "prefs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	got, err := s.Theme(ctx, theme.Dark)
	if err != nil || got != theme.Dark {
		t.Fatalf("Theme() on empty store = (%v, %v), want fallback Dark", got, err)
	}

	if err := s.SetTheme(ctx, theme.Light); err != nil {
		t.Fatalf("SetTheme() error: %v", err)
	}
	got, err = s.Theme(ctx, theme.Dark)
	if err != nil || got != theme.Light {
		t.Errorf("Theme() = (%v, %v), want Light", got, err)
	}

	if err := s.SetTheme(ctx, theme.Dark); err != nil {
		t.Fatalf("SetTheme() error: %v", err)
	}
	if got, _ := s.Theme(ctx, theme.Light); got != theme.Dark {
		t.Errorf("Theme() after overwrite = %v, want Dark", got)
	}
}

func TestSortKeyRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if got, _ := s.SortKey(ctx, ordering.Popularity); got != ordering.Popularity {
		t.Errorf("SortKey() on empty store = %v, want fallback", got)
	}
	for _, k := range ordering.Keys {
		if err := s.SetSortKey(ctx, k); err != nil {
			t.Fatalf("SetSortKey(%v) error: %v", k, err)
		}
		if got, err := s.SortKey(ctx, ordering.Default); err != nil || got != k {
			t.Errorf("SortKey() = (%v, %v), want %v", got, err, k)
		}
	}
}

func TestSortKey_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.set(ctx, keySortKey, "title"); err != nil {
		t.Fatal(err)
	}
	got, err := s.SortKey(ctx, ordering.VoteAverage)
	if err == nil {
		t.Error("expected error for corrupt sort key")
	}
	if got != ordering.VoteAverage {
		t.Errorf("SortKey() = %v, want fallback", got)
	}
}

func TestSetReaction(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	st, err := s.Reaction(ctx, 550)
	if err != nil {
		t.Fatalf("Reaction() error: %v", err)
	}
	if st.MovieID != 550 || st.Reaction != ReactionNone || st.Watchlist {
		t.Errorf("unknown movie state = %+v", st)
	}

	testCases := []struct {
		name  string
		input Reaction
		want  Reaction
	}{
		{"like", ReactionLike, ReactionLike},
		{"switch to dislike", ReactionDislike, ReactionDislike},
		{"same again clears", ReactionDislike, ReactionNone},
		{"like after clear", ReactionLike, ReactionLike},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := s.SetReaction(ctx, 550, tc.input)
			if err != nil {
				t.Fatalf("SetReaction() error: %v", err)
			}
			if st.Reaction != tc.want {
				t.Errorf("returned reaction = %q, want %q", st.Reaction, tc.want)
			}
			stored, _ := s.Reaction(ctx, 550)
			if stored.Reaction != tc.want {
				t.Errorf("stored reaction = %q, want %q", stored.Reaction, tc.want)
			}
		})
	}
}

func TestToggleWatchlist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.SetReaction(ctx, 1, ReactionLike); err != nil {
		t.Fatal(err)
	}
	st, err := s.ToggleWatchlist(ctx, 1)
	if err != nil {
		t.Fatalf("ToggleWatchlist() error: %v", err)
	}
	if !st.Watchlist || st.Reaction != ReactionLike {
		t.Errorf("state = %+v, want watchlisted and still liked", st)
	}
	if _, err := s.ToggleWatchlist(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleWatchlist(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleWatchlist(ctx, 3); err != nil {
		t.Fatal(err)
	}

	ids, err := s.Watchlist(ctx)
	if err != nil {
		t.Fatalf("Watchlist() error: %v", err)
	}
	slices.Sort(ids)
	if want := []int{1, 2}; !slices.Equal(ids, want) {
		t.Errorf("Watchlist() = %v, want %v", ids, want)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "movies.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetTheme(ctx, theme.Light); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleWatchlist(ctx, 42); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, _ := s.Theme(ctx, theme.Dark); got != theme.Light {
		t.Errorf("Theme() after reopen = %v, want Light", got)
	}
	if st, _ := s.Reaction(ctx, 42); !st.Watchlist {
		t.Error("watchlist flag lost after reopen")
	}
}

func TestParseReaction(t *testing.T) {
	for in, want := range map[string]Reaction{"": ReactionNone, "none": ReactionNone, "like": ReactionLike, "dislike": ReactionDislike} {
		if got, err := ParseReaction(in); err != nil || got != want {
			t.Errorf("ParseReaction(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseReaction("love"); err == nil {
		t.Error("expected error for unknown reaction")
	}
}
