package lookup

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultEndpoint          = "https://en.wikipedia.org/api/rest_v1"
	defaultTimeoutSeconds    = 10
	defaultRequestsPerSecond = 1
)

// Config holds external lookup parameters.
type Config struct {
	Enabled           bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Strict            bool    `json:"strict,omitempty" yaml:"strict,omitempty"`
	Endpoint          string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TimeoutSeconds    int     `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
}

// DefaultConfig returns the default lookup configuration (disabled).
func DefaultConfig() Config {
	return Config{
		Endpoint:          defaultEndpoint,
		TimeoutSeconds:    defaultTimeoutSeconds,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Enabled {
		c.Enabled = true
	}
	if source.Strict {
		c.Strict = true
	}
	if source.Endpoint != "" {
		c.Endpoint = source.Endpoint
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
	if source.RequestsPerSecond > 0 {
		c.RequestsPerSecond = source.RequestsPerSecond
	}
}

// New creates a Client from configuration. Returns nil when lookup is
// disabled.
func New(cfg *Config) *Client {
	if !cfg.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)

	return NewClient(limiter, NewWikipedia(cfg.Endpoint, httpClient))
}
