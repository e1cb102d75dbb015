package spaces

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the client configuration, loaded from environment variables.
//
// Available environment variables:
//   - SPACES_API_BASE_URL: backend REST API base address
//   - SPACES_STORAGE_KEY: token slot name in the credential store
//   - SPACES_REQUEST_TIMEOUT: per-request timeout
//   - SPACES_DEBUG: enable request payload dumps
//   - SPACES_ROUTE_*: navigation destinations
type Config struct {
	// BaseURL is the backend REST API address. All endpoints are relative
	// to it.
	BaseURL string `env:"SPACES_API_BASE_URL" envDefault:"http://127.0.0.1:5000/api"`

	// StorageKey is the fixed slot the token is persisted under.
	StorageKey string `env:"SPACES_STORAGE_KEY" envDefault:"token"`

	// RequestTimeout bounds each API call.
	RequestTimeout time.Duration `env:"SPACES_REQUEST_TIMEOUT" envDefault:"15s"`

	// Debug enables request payload dumps at debug level.
	Debug bool `env:"SPACES_DEBUG" envDefault:"false"`

	// Routes are the navigation destinations used by the session manager
	// and route guard.
	Routes RouteConfig `envPrefix:"SPACES_ROUTE_"`
}

// RouteConfig holds the navigation destinations.
type RouteConfig struct {
	Home      string `env:"HOME" envDefault:"/"`
	Login     string `env:"LOGIN" envDefault:"/login"`
	Dashboard string `env:"DASHBOARD" envDefault:"/dashboard"`
}

// LoadConfig reads configuration from the environment, honoring a .env
// file when one is present.
func LoadConfig() (*Config, error) {
	// Missing .env files are fine; the environment wins either way.
	godotenv.Load() //nolint:errcheck

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *Config) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}

	if c.Routes.Home == "" {
		c.Routes.Home = PathHome
	}
	if c.Routes.Login == "" {
		c.Routes.Login = PathLogin
	}
	if c.Routes.Dashboard == "" {
		c.Routes.Dashboard = PathDashboard
	}
}
