// Package config loads the optional YAML file that holds the same settings as the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/state"
)

// DefaultStatusTimeout is how long the harness waits for GET /status before giving up.
const DefaultStatusTimeout = 10 * time.Second

// Config holds the settings of one test run.
type Config struct {
	BaseURL string `yaml:"baseURL"`
	// CatalogSize is the number of books the API is expected to serve. Zero means the built-in
	// default.
	CatalogSize int `yaml:"catalogSize"`
	// RequestsPerSecond paces calls to the API; zero means unpaced.
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`
	StatusTimeout     time.Duration `yaml:"statusTimeout"`
	State             state.Options `yaml:"state"`
}

// Default returns the settings used when neither a file nor a flag says otherwise.
func Default() Config {
	return Config{
		RequestTimeout: client.DefaultTimeout,
		StatusTimeout:  DefaultStatusTimeout,
		State:          state.Options{Kind: state.KindFile},
	}
}

// Load reads the file at path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that the run cannot start without.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q is not an absolute URL", c.BaseURL)
	}
	if c.CatalogSize < 0 {
		return fmt.Errorf("catalogSize must not be negative, was %d", c.CatalogSize)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requestsPerSecond must not be negative, was %g", c.RequestsPerSecond)
	}
	if c.StatusTimeout <= 0 {
		return fmt.Errorf("statusTimeout must be positive, was %s", c.StatusTimeout)
	}
	return nil
}

// ClientOptions returns the options for the HTTP client that calls the API.
func (c Config) ClientOptions() client.Options {
	return client.Options{Timeout: c.RequestTimeout, RequestsPerSecond: c.RequestsPerSecond}
}
