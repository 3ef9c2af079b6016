// Package config loads the server configuration: defaults, then an optional
// YAML file, then environment variables (a .env file is loaded first if present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Environment variables that override the file settings.
const (
	EnvAddr           = "PYRAMID_ADDR"
	EnvDeckAPIURL     = "PYRAMID_DECK_API_URL"
	EnvRequestTimeout = "PYRAMID_REQUEST_TIMEOUT"
	EnvTitle          = "PYRAMID_TITLE"
)

// Config holds the server settings.
type Config struct {
	// Addr is the address the HTTP server listens on. Empty picks a free port on localhost.
	Addr string `yaml:"addr"`

	// DeckAPIURL is the root of the deck service (e.g. https://deckofcardsapi.com/api).
	// If empty, the server's own built-in deck service is used.
	DeckAPIURL string `yaml:"deck_api_url"`

	// RequestTimeout bounds each request to the deck service.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Title is shown in the page title and top bar.
	Title string `yaml:"title"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:           "localhost:8080",
		RequestTimeout: 10 * time.Second,
		Title:          "GoPyramid",
	}
}

// Load returns the default configuration overridden by the YAML file at path
// (skipped if path is empty or the file doesn't exist) and then by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			klog.V(1).Infof("Config file %s not found, using defaults", path)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given .env files (".env" if none),
// without overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				klog.Warningf("Error loading %s: %v", f, err)
			}
			continue
		}
		klog.Infof("Loaded environment variables from %s", f)
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv(EnvDeckAPIURL); ok {
		c.DeckAPIURL = v
	}
	if v, ok := os.LookupEnv(EnvTitle); ok && v != "" {
		c.Title = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvRequestTimeout, v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}
