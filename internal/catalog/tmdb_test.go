package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const listBody = `{
  "page": 1,
  "results": [
    {"id": 11, "title": "Alpha", "poster_path": "/a.jpg", "vote_average": 7.1, "release_date": "2020-01-01", "popularity": 55.2},
    {"id": 12, "title": "Beta", "poster_path": null, "vote_average": 6.3, "release_date": "2021-06-30", "popularity": 80.4}
  ],
  "total_pages": 9,
  "total_results": 170
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClientWithConfig(ClientConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     quietLogger(),
	})
	return c, &calls
}

func TestFetchByCategory_Success(t *testing.T) {
	for _, cat := range Categories {
		t.Run(string(cat), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/movie/"+string(cat) {
					t.Errorf("path = %q, want /movie/%s", r.URL.Path, cat)
				}
				q := r.URL.Query()
				if q.Get("api_key") != "test-key" || q.Get("page") != "1" || q.Get("language") != "en-US" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				_, _ = io.WriteString(w, listBody)
			})

			got := c.FetchByCategory(context.Background(), string(cat))
			if len(got) != 2 {
				t.Fatalf("expected 2 movies, got %d", len(got))
			}
			if got[0].ID != 11 || got[0].PosterPath != "/a.jpg" || got[0].VoteAverage != 7.1 {
				t.Errorf("unexpected first movie: %+v", got[0])
			}
			if got[1].PosterPath != "" {
				t.Errorf("null poster_path should decode to empty, got %q", got[1].PosterPath)
			}
		})
	}
}

func TestFetchByCategory_InvalidCategoryMakesNoCall(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, listBody)
	})

	got := c.FetchByCategory(context.Background(), "top_rated")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if *calls != 0 {
		t.Errorf("expected no HTTP calls, got %d", *calls)
	}
}

func TestFetchByCategory_FailuresDegradeToEmpty(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"status_code":7,"status_message":"Invalid API key","success":false}`)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"results": [`)
		}},
		{"missing results", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"page": 1}`)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, calls := newTestClient(t, tc.handler)
			got := c.FetchByCategory(context.Background(), "popular")
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty non-nil slice, got %#v", got)
			}
			if *calls != 1 {
				t.Errorf("expected exactly 1 call (no retries), got %d", *calls)
			}
		})
	}
}

func TestFetchByCategory_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClientWithConfig(ClientConfig{APIKey: "k", BaseURL: srv.URL, Logger: quietLogger()})
	if got := c.FetchByCategory(context.Background(), "upcoming"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d movies", len(got))
	}
}

func TestFetchByCategory_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, listBody)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := c.FetchByCategory(ctx, "popular"); len(got) != 0 {
		t.Fatalf("expected empty result for cancelled context, got %d", len(got))
	}
}

func TestSearch_NormalizesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path = %q, want /search/movie", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "the matrix" {
			t.Errorf("query = %q, want %q", q.Get("query"), "the matrix")
		}
		if q.Get("include_adult") != "false" {
			t.Errorf("include_adult = %q, want false", q.Get("include_adult"))
		}
		_, _ = io.WriteString(w, listBody)
	})

	got := c.Search(context.Background(), "  The MATRIX \t")
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestSearch_EmptyQueryMakesNoCall(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, listBody)
	})

	for _, q := range []string{"", "   ", "\n\t"} {
		if got := c.Search(context.Background(), q); len(got) != 0 {
			t.Errorf("Search(%q) returned %d results", q, len(got))
		}
	}
	if *calls != 0 {
		t.Errorf("expected no HTTP calls, got %d", *calls)
	}
}

func TestFirstResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "nothing" {
			_, _ = io.WriteString(w, `{"page":1,"results":[]}`)
			return
		}
		_, _ = io.WriteString(w, listBody)
	})

	movie, ok := c.FirstResult(context.Background(), "alpha")
	if !ok || movie.ID != 11 {
		t.Fatalf("FirstResult = (%+v, %v), want id 11", movie, ok)
	}
	if _, ok := c.FirstResult(context.Background(), "nothing"); ok {
		t.Error("expected no result for empty search")
	}
}

func TestMovieDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/603":
			_, _ = io.WriteString(w, `{"id":603,"title":"The Matrix","original_title":"The Matrix","runtime":136,"vote_average":8.2,"genres":[{"id":28,"name":"Action"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
		}
	})

	details, err := c.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetails error: %v", err)
	}
	if details.OriginalTitle != "The Matrix" || details.Runtime != 136 || len(details.Genres) != 1 {
		t.Errorf("unexpected details: %+v", details)
	}

	if _, err := c.MovieDetails(context.Background(), 1); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound, got %v", err)
	}
	if _, err := c.MovieDetails(context.Background(), 0); err == nil {
		t.Error("expected error for id 0")
	}
}

func TestPosterURL(t *testing.T) {
	c := NewClient("k", "")
	if got := c.PosterURL(""); got != "" {
		t.Errorf("PosterURL(\"\") = %q, want empty", got)
	}
	if got := c.PosterURL("/x.jpg"); got != "https://image.tmdb.org/t/p/w500/x.jpg" {
		t.Errorf("PosterURL = %q", got)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	resp := &http.Response{StatusCode: 401, Status: "401 Unauthorized"}
	err := newStatusError(resp, []byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	if err.Error() != "TMDB API error (status 401): Invalid API key" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
