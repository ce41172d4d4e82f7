// Package config loads server and terminal settings from an optional TOML
// file and the process environment. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
)

// TokenEnvVars are the accepted names for the provider credential, in
// lookup order. The first non-empty value wins.
var TokenEnvVars = []string{
	"POLAR_ACCESS_TOKEN",
	"POLAR_SANDBOX_KEY",
	"POLAR_KEY",
	"POLAR_OAT",
	"POLAR_TOKEN",
}

const (
	DefaultPort         = "8080"
	DefaultPolarBaseURL = "https://sandbox-api.polar.sh"
	DefaultSiteURL      = "http://localhost:8080"
)

// DefaultSessionPaths are the provider endpoints tried, in order, when
// resolving a checkout from a customer session token.
var DefaultSessionPaths = []string{
	"/v1/checkouts/session/{token}",
	"/v1/customer_sessions/{token}",
	"/v1/customer_sessions/{token}/checkout",
}

// Duration decodes TOML strings such as "4s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Port    string `toml:"port"`
	SiteURL string `toml:"site_url"`
	// APIURL is where the terminal client reaches the checkout API.
	APIURL string `toml:"api_url"`

	Polar     PolarConfig       `toml:"polar"`
	Checkout  CheckoutConfig    `toml:"checkout"`
	RateLimit RateLimitConfig   `toml:"rate_limit"`
	Terminal  TerminalConfig    `toml:"terminal"`
	Visits    VisitsConfig      `toml:"visits"`
	Products  map[string]string `toml:"products"`
}

type PolarConfig struct {
	BaseURL      string   `toml:"base_url"`
	Token        string   `toml:"-"`
	Timeout      Duration `toml:"timeout"`
	SessionPaths []string `toml:"session_paths"`
}

type CheckoutConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	MaxAttempts  int      `toml:"max_attempts"`
}

type RateLimitConfig struct {
	PerSecond float64 `toml:"per_second"`
	Burst     int     `toml:"burst"`
}

type TerminalConfig struct {
	StorePath   string `toml:"store_path"`
	LogPath     string `toml:"log_path"`
	OpenBrowser bool   `toml:"open_browser"`
}

// VisitsConfig controls the hashed visitor log kept by the server.
type VisitsConfig struct {
	Enabled   bool     `toml:"enabled"`
	StorePath string   `toml:"store_path"`
	Retention Duration `toml:"retention"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:    DefaultPort,
		SiteURL: DefaultSiteURL,
		Polar: PolarConfig{
			BaseURL:      DefaultPolarBaseURL,
			Timeout:      Duration{15 * time.Second},
			SessionPaths: append([]string(nil), DefaultSessionPaths...),
		},
		Checkout: CheckoutConfig{
			PollInterval: Duration{4 * time.Second},
			MaxAttempts:  60,
		},
		RateLimit: RateLimitConfig{
			PerSecond: 2,
			Burst:     10,
		},
		Terminal: TerminalConfig{
			StorePath:   "portfolio-terminal.db",
			LogPath:     "portfolio-terminal.log",
			OpenBrowser: true,
		},
		Visits: VisitsConfig{
			Enabled:   true,
			StorePath: "portfolio-visits.db",
			Retention: Duration{365 * 24 * time.Hour},
		},
		Products: map[string]string{},
	}
}

// Load reads the TOML file at path (skipped when path is empty) and then
// applies environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		if cfg.Products == nil {
			cfg.Products = map[string]string{}
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("SITE_URL"); v != "" {
		c.SiteURL = v
	}
	if v := getenv("API_URL"); v != "" {
		c.APIURL = v
	}
	if v := getenv("VISITS_DB"); v != "" {
		c.Visits.StorePath = v
	}
	if v := getenv("POLAR_API_BASE"); v != "" {
		c.Polar.BaseURL = v
	}
	for _, name := range TokenEnvVars {
		if v := getenv(name); v != "" {
			c.Polar.Token = v
			break
		}
	}
	for _, p := range catalog.Skateboards() {
		if v := getenv(p.EnvVar); v != "" {
			c.Products[p.ID] = v
		}
	}
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if _, err := url.ParseRequestURI(c.Polar.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("polar.base_url: %w", err))
	}
	if c.SiteURL != "" {
		if _, err := url.ParseRequestURI(c.SiteURL); err != nil {
			errs = append(errs, fmt.Errorf("site_url: %w", err))
		}
	}
	if c.Checkout.PollInterval.Duration <= 0 {
		errs = append(errs, errors.New("checkout.poll_interval must be positive"))
	}
	if c.Checkout.MaxAttempts <= 0 {
		errs = append(errs, errors.New("checkout.max_attempts must be positive"))
	}
	if c.RateLimit.PerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	if c.Visits.Enabled && c.Visits.StorePath == "" {
		errs = append(errs, errors.New("visits.store_path is required when visits are enabled"))
	}
	for _, p := range c.Polar.SessionPaths {
		if !strings.Contains(p, "{token}") {
			errs = append(errs, fmt.Errorf("polar.session_paths: %q has no {token} placeholder", p))
		}
	}

	return errors.Join(errs...)
}

// HasToken reports whether a provider credential was supplied.
func (c *Config) HasToken() bool {
	return c.Polar.Token != ""
}

// ClientAPIURL is the base URL the terminal client talks to. It falls back
// to the local server.
func (c *Config) ClientAPIURL() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	return "http://localhost:" + c.Port
}

// Catalog returns the product catalog with configured provider ids.
func (c *Config) Catalog() catalog.Catalog {
	return catalog.New(c.Products)
}
