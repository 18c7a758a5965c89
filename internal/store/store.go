// Package store persists user preferences and per-movie reactions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/theme"
)

const (
	keyTheme   = "theme"
	keySortKey = "sort_key"
)

// Reaction is a user's opinion of a movie
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ParseReaction parses "like", "dislike" or "none"
func ParseReaction(s string) (Reaction, error) {
	switch s {
	case "", "none":
		return ReactionNone, nil
	case "like":
		return ReactionLike, nil
	case "dislike":
		return ReactionDislike, nil
	default:
		return ReactionNone, fmt.Errorf("unknown reaction %q", s)
	}
}

// MovieState is everything stored about one movie
type MovieState struct {
	MovieID   int
	Reaction  Reaction
	Watchlist bool
	UpdatedAt time.Time
}

// Store is a SQLite-backed preference store
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the database at dbPath.
// The parent directory and tables are auto-created.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}
	// a single connection keeps :memory: databases consistent
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reactions (
			movie_id INTEGER PRIMARY KEY,
			reaction TEXT NOT NULL DEFAULT '',
			watchlist INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reactions_watchlist ON reactions(watchlist);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create store tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme, or fallback if none was saved
func (s *Store) Theme(ctx context.Context, fallback theme.Mode) (theme.Mode, error) {
	v, ok, err := s.get(ctx, keyTheme)
	if err != nil || !ok {
		return fallback, err
	}
	m, err := theme.ParseMode(v)
	if err != nil {
		return fallback, fmt.Errorf("stored theme: %w", err)
	}
	return m, nil
}

// SetTheme saves the theme
func (s *Store) SetTheme(ctx context.Context, m theme.Mode) error {
	return s.set(ctx, keyTheme, m.String())
}

// SortKey returns the stored sort key, or fallback if none was saved
func (s *Store) SortKey(ctx context.Context, fallback ordering.OrderKey) (ordering.OrderKey, error) {
	v, ok, err := s.get(ctx, keySortKey)
	if err != nil || !ok {
		return fallback, err
	}
	k, err := ordering.ParseOrderKey(v)
	if err != nil {
		return fallback, fmt.Errorf("stored sort key: %w", err)
	}
	return k, nil
}

// SetSortKey saves the sort key
func (s *Store) SetSortKey(ctx context.Context, k ordering.OrderKey) error {
	return s.set(ctx, keySortKey, k.String())
}

// Reaction returns the stored state for a movie. Unknown movies return a
// zero MovieState with MovieID set.
func (s *Store) Reaction(ctx context.Context, movieID int) (MovieState, error) {
	st := MovieState{MovieID: movieID}
	var reaction string
	var watchlist int
	err := s.db.QueryRowContext(ctx,
		"SELECT reaction, watchlist, updated_at FROM reactions WHERE movie_id = ?",
		movieID,
	).Scan(&reaction, &watchlist, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read reaction for movie %d: %w", movieID, err)
	}
	st.Reaction = Reaction(reaction)
	st.Watchlist = watchlist != 0
	return st, nil
}

// SetReaction stores r for a movie, leaving its watchlist flag untouched.
// Setting the reaction a movie already has clears it, like pressing the
// same button twice.
func (s *Store) SetReaction(ctx context.Context, movieID int, r Reaction) (MovieState, error) {
	cur, err := s.Reaction(ctx, movieID)
	if err != nil {
		return cur, err
	}
	if cur.Reaction == r {
		r = ReactionNone
	}
	cur.Reaction = r
	return cur, s.upsert(ctx, cur)
}

// ToggleWatchlist flips a movie's watchlist flag
func (s *Store) ToggleWatchlist(ctx context.Context, movieID int) (MovieState, error) {
	cur, err := s.Reaction(ctx, movieID)
	if err != nil {
		return cur, err
	}
	cur.Watchlist = !cur.Watchlist
	return cur, s.upsert(ctx, cur)
}

func (s *Store) upsert(ctx context.Context, st MovieState) error {
	watchlist := 0
	if st.Watchlist {
		watchlist = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reactions (movie_id, reaction, watchlist, updated_at)
		 VALUES (?, ?, ?, ?)`,
		st.MovieID, string(st.Reaction), watchlist, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write reaction for movie %d: %w", st.MovieID, err)
	}
	return nil
}

// Watchlist returns the IDs of watchlisted movies, most recently changed first
func (s *Store) Watchlist(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT movie_id FROM reactions WHERE watchlist = 1 ORDER BY updated_at DESC, movie_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}
	return ids, nil
}
