package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// ErrMovieNotFound is returned when a movie is not found by ID
var ErrMovieNotFound = errors.New("movie not found")

// Client represents a TMDB API client.
// Failed requests are never retried.
type Client struct {
	apiKey       string
	language     string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	logger       *slog.Logger
}

// ClientConfig holds configuration for the TMDB client
type ClientConfig struct {
	APIKey       string
	Language     string
	BaseURL      string
	ImageBaseURL string
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string, language string) *Client {
	return NewClientWithConfig(ClientConfig{
		APIKey:   apiKey,
		Language: language,
	})
}

// NewClientWithConfig creates a new TMDB API client with full configuration
func NewClientWithConfig(cfg ClientConfig) *Client {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.HTTPClient == nil {
		// no timeout: the network stack default applies
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
	}
}

// PosterURL returns the absolute poster image URL, or "" when the movie has no poster
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageBaseURL + posterPath
}

// FetchByCategory returns page 1 of a category listing.
// An empty result means "unknown", not "confirmed no results": invalid
// categories, transport failures and non-2xx responses are logged and
// reported as an empty slice.
func (c *Client) FetchByCategory(ctx context.Context, category string) []MovieSummary {
	cat, err := ParseCategory(category)
	if err != nil {
		c.logger.Error("invalid category provided", "category", category)
		return []MovieSummary{}
	}

	params := c.baseParams()
	params.Set("page", "1")

	listURL := fmt.Sprintf("%s/movie/%s?%s", c.baseURL, cat, params.Encode())
	c.logger.Debug("fetching category", "category", cat)

	var resp ListResponse
	if err := c.getJSON(ctx, listURL, &resp); err != nil {
		c.logFailure("failed to fetch category", err, "category", cat)
		return []MovieSummary{}
	}
	if resp.Results == nil {
		return []MovieSummary{}
	}

	c.logger.Debug("category fetched", "category", cat, "results", len(resp.Results))
	return resp.Results
}

// NormalizeQuery trims whitespace and case-folds a search query
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search returns page 1 of a free-text movie search.
// An empty normalized query makes no request.
func (c *Client) Search(ctx context.Context, query string) []MovieSummary {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return []MovieSummary{}
	}

	params := c.baseParams()
	params.Set("query", normalized)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	searchURL := fmt.Sprintf("%s/search/movie?%s", c.baseURL, params.Encode())
	c.logger.Debug("searching for movie", "query", normalized)

	var resp ListResponse
	if err := c.getJSON(ctx, searchURL, &resp); err != nil {
		c.logFailure("failed to search movie", err, "query", normalized)
		return []MovieSummary{}
	}
	if resp.Results == nil {
		return []MovieSummary{}
	}
	return resp.Results
}

// FirstResult runs a search and returns its first hit
func (c *Client) FirstResult(ctx context.Context, query string) (MovieSummary, bool) {
	results := c.Search(ctx, query)
	if len(results) == 0 {
		return MovieSummary{}, false
	}
	return results[0], true
}

// MovieDetails fetches detailed information about a movie
func (c *Client) MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("invalid movie id %d", tmdbID)
	}

	detailsURL := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, tmdbID, c.baseParams().Encode())

	var details MovieDetails
	if err := c.getJSON(ctx, detailsURL, &details); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}

	return &details, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return params
}

// getJSON performs a single GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newStatusError(resp, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// logFailure logs a request failure; cancellations are expected on navigation
func (c *Client) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, context.Canceled) {
		c.logger.Debug(msg, args...)
		return
	}
	c.logger.Error(msg, args...)
}

// StatusError describes a non-2xx TMDB response
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("TMDB API error (status %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("TMDB API error (status %d): %s", e.Code, e.Status)
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	statusErr := &StatusError{Code: resp.StatusCode, Status: resp.Status}
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.StatusMessage != "" {
		statusErr.Message = apiErr.StatusMessage
	} else if len(body) > 0 {
		statusErr.Message = strings.TrimSpace(string(body))
	}
	return statusErr
}
