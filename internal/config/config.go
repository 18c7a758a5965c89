package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/marco/movieBrowser/internal/carousel"
	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/theme"
)

// Config represents the application configuration
type Config struct {
	TMDB   TMDBConfig   `yaml:"tmdb"`
	Browse BrowseConfig `yaml:"browse"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
}

// TMDBConfig holds TMDB API configuration
type TMDBConfig struct {
	APIKey       string `yaml:"api_key"`
	Language     string `yaml:"language"`
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
}

// BrowseConfig holds list and carousel settings
type BrowseConfig struct {
	Categories  []string `yaml:"categories"`
	ItemWidth   int      `yaml:"item_width"`
	Clamp       string   `yaml:"clamp"`
	DefaultSort string   `yaml:"default_sort"`
	Theme       string   `yaml:"theme"`
	Workers     int      `yaml:"workers"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig holds preference store settings
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ErrMissingAPIKey is returned when no usable TMDB API key is configured
var ErrMissingAPIKey = errors.New("TMDB API key is required. Get one from https://www.themoviedb.org/settings/api")

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config content, expanding environment variables,
// applying defaults and validating the result
func Parse(data []byte) (*Config, error) {
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storePath, err := expandHome(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	cfg.Store.Path = storePath

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TMDB.Language == "" {
		c.TMDB.Language = "en-US"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = catalog.DefaultBaseURL
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = catalog.DefaultImageBaseURL
	}
	if len(c.Browse.Categories) == 0 {
		for _, cat := range catalog.Categories {
			c.Browse.Categories = append(c.Browse.Categories, string(cat))
		}
	}
	if c.Browse.ItemWidth == 0 {
		c.Browse.ItemWidth = 300
	}
	if c.Browse.Clamp == "" {
		c.Browse.Clamp = carousel.ClampFill.String()
	}
	if c.Browse.DefaultSort == "" {
		c.Browse.DefaultSort = ordering.Default.String()
	}
	if c.Browse.Theme == "" {
		c.Browse.Theme = theme.Dark.String()
	}
	if c.Browse.Workers == 0 {
		c.Browse.Workers = 3
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Store.Path == "" {
		c.Store.Path = "./data/movies.db"
	}
}

// Validate checks every field that has a restricted set of values
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" || c.TMDB.APIKey == "your_api_key_here" {
		return ErrMissingAPIKey
	}
	for _, name := range c.Browse.Categories {
		if _, err := catalog.ParseCategory(name); err != nil {
			return fmt.Errorf("browse.categories: %w", err)
		}
	}
	if c.Browse.ItemWidth < 0 {
		return fmt.Errorf("browse.item_width must be positive, got %d", c.Browse.ItemWidth)
	}
	if c.Browse.Workers < 0 {
		return fmt.Errorf("browse.workers must be positive, got %d", c.Browse.Workers)
	}
	if _, err := carousel.ParseClampPolicy(c.Browse.Clamp); err != nil {
		return fmt.Errorf("browse.clamp: %w", err)
	}
	if _, err := ordering.ParseOrderKey(c.Browse.DefaultSort); err != nil {
		return fmt.Errorf("browse.default_sort: %w", err)
	}
	if _, err := theme.ParseMode(c.Browse.Theme); err != nil {
		return fmt.Errorf("browse.theme: %w", err)
	}
	return nil
}

// ClampPolicy returns the parsed browse.clamp value
func (c *Config) ClampPolicy() carousel.ClampPolicy {
	p, _ := carousel.ParseClampPolicy(c.Browse.Clamp)
	return p
}

// DefaultSort returns the parsed browse.default_sort value
func (c *Config) DefaultSort() ordering.OrderKey {
	k, _ := ordering.ParseOrderKey(c.Browse.DefaultSort)
	return k
}

// Theme returns the parsed browse.theme value
func (c *Config) Theme() theme.Mode {
	m, _ := theme.ParseMode(c.Browse.Theme)
	return m
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
