// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// Logout401 clears the session and redirects to login on any 401.
	Logout401 bool `yaml:"logout_on_401"`
}

type MapboxConfig struct {
	AccessToken string `yaml:"access_token"`
	BaseURL     string `yaml:"base_url"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // memory | file | redis
	Path    string `yaml:"path"`    // file backend only
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // 0 = keys never expire
	Prefix   string        `yaml:"prefix"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// LocationConfig stands in for the device position. Omitting both keys means
// unavailable; (0,0) is a real position.
type LocationConfig struct {
	Lat *float64 `yaml:"lat"`
	Lng *float64 `yaml:"lng"`
}

// FixedLocation builds a configured position.
func FixedLocation(lat, lng float64) LocationConfig {
	return LocationConfig{Lat: &lat, Lng: &lng}
}

func (l LocationConfig) Available() bool { return l.Lat != nil && l.Lng != nil }

type StubConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	OTPCode   string `yaml:"otp_code"`
}

type MetricsConfig struct {
	Port int `yaml:"port"` // 0 disables the endpoint
}

type Config struct {
	API      APIConfig      `yaml:"api"`
	Mapbox   MapboxConfig   `yaml:"mapbox"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Location LocationConfig `yaml:"location"`
	Stub     StubConfig     `yaml:"stub"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// LoadConfig reads the YAML file at path (a missing file yields defaults), then
// overlays .env and LOCALSERVICES_* environment variables.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional, like NEXT_PUBLIC_* in the web build
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOCALSERVICES_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("LOCALSERVICES_MAPBOX_KEY"); v != "" {
		cfg.Mapbox.AccessToken = v
	}
	if v := os.Getenv("LOCALSERVICES_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("LOCALSERVICES_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000/api/v1"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Mapbox.BaseURL == "" {
		cfg.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.Backend == BackendFile && cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultSessionPath()
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "localservices:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Stub.Port <= 0 {
		cfg.Stub.Port = 8000
	}
	if cfg.Stub.JWTSecret == "" {
		cfg.Stub.JWTSecret = "dev-stub-secret-change-me"
	}
	if cfg.Stub.OTPCode == "" {
		cfg.Stub.OTPCode = "123456"
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".localservices-session.json"
	}
	return filepath.Join(home, ".localservices", "session.json")
}

// Validate checks the invariants LoadConfig cannot default away.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for storage.backend=redis")
		}
	default:
		return fmt.Errorf("storage.backend must be memory, file or redis, got %q", c.Storage.Backend)
	}
	if (c.Location.Lat == nil) != (c.Location.Lng == nil) {
		return errors.New("location needs both lat and lng")
	}
	if l := c.Location; l.Available() && (*l.Lat < -90 || *l.Lat > 90 || *l.Lng < -180 || *l.Lng > 180) {
		return fmt.Errorf("location %v,%v is out of range", *l.Lat, *l.Lng)
	}
	return nil
}
