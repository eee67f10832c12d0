// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note - Configuration Management:
// NewDefaultConfig holds the defaults as a plain struct literal. Load layers
// the environment on top of it: a local .env file is read first (godotenv,
// missing file ignored), then viper resolves every key from the process
// environment, falling back to the default registered with SetDefault.
//
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion. The Config is built once in main and passed down
// into constructors; no package reads configuration on its own.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the top-level configuration container.
type Config struct {
	Server         ServerConfig
	Store          StoreConfig
	Redis          RedisConfig
	Auth           AuthConfig
	Location       LocationConfig
	DistanceMatrix DistanceMatrixConfig
	SMS            SMSConfig
	Reports        ReportsConfig
	Log            LogConfig
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note - time.Duration:
// Go uses time.Duration (an int64 of nanoseconds) instead of raw integers for
// timeouts and intervals. viper parses strings such as "10s" or "1h30m" into
// it directly.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the persistence backend for users, reports and
// feedback.
type StoreConfig struct {
	Driver      string // memory | postgres
	PostgresDSN string
	MaxOpenConn int
	MaxIdleConn int
}

// RedisConfig enables the Redis-backed report cooldown when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	AdminToken string // guards /api/admin; empty disables the admin routes
}

// LocationConfig controls the nearest-station pipeline.
type LocationConfig struct {
	DatasetPath     string
	CandidateLimit  int           // straight-line candidates sent to the provider; <= 0 sends all
	ProviderTimeout time.Duration // deadline for one provider call
}

type DistanceMatrixConfig struct {
	BaseURL string
	APIKey  string
	Mode    string
	Units   string
}

// SMSConfig holds the Twilio credentials. SMS is disabled when any of them is
// empty.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (c SMSConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// ReportsConfig controls crime report submission and lookup.
type ReportsConfig struct {
	Cooldown         time.Duration // minimum gap between two reports of the same type by one user
	NearbyRadiusKm   float64       // default radius of the nearby lookup
	GeohashPrecision int
}

type LogConfig struct {
	Level  string
	Format string // json | console
}

// NewDefaultConfig returns a Config populated with defaults suitable for
// local development: in-memory storage, no Redis, SMS disabled.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:      StoreMemory,
			MaxOpenConn: 50,
			MaxIdleConn: 25,
		},
		Auth: AuthConfig{
			JWTSecret: "change-me",
			TokenTTL:  time.Hour,
		},
		Location: LocationConfig{
			DatasetPath:     "data/locations.geojson",
			CandidateLimit:  25,
			ProviderTimeout: 5 * time.Second,
		},
		DistanceMatrix: DistanceMatrixConfig{
			BaseURL: "https://maps.googleapis.com/maps/api/distancematrix/json",
			Mode:    "driving",
			Units:   "metric",
		},
		Reports: ReportsConfig{
			Cooldown:         30 * time.Second,
			NearbyRadiusKm:   2.0,
			GeohashPrecision: 6,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads .env (if present) and the environment on top of the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromViper(viper.New())
}

// FromViper resolves a Config from v, registering the defaults first. It is
// split out of Load so tests can feed values without touching the process
// environment.
func FromViper(v *viper.Viper) (*Config, error) {
	d := NewDefaultConfig()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", d.Server.Port)
	v.SetDefault("SERVER_READ_TIMEOUT", d.Server.ReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", d.Server.WriteTimeout)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", d.Server.ShutdownTimeout)

	v.SetDefault("STORE_DRIVER", d.Store.Driver)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PG_MAX_OPEN_CONNS", d.Store.MaxOpenConn)
	v.SetDefault("PG_MAX_IDLE_CONNS", d.Store.MaxIdleConn)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", d.Auth.JWTSecret)
	v.SetDefault("AUTH_TOKEN_TTL", d.Auth.TokenTTL)
	v.SetDefault("ADMIN_TOKEN", "")

	v.SetDefault("LOCATIONS_PATH", d.Location.DatasetPath)
	v.SetDefault("LOCATION_CANDIDATE_LIMIT", d.Location.CandidateLimit)
	v.SetDefault("LOCATION_PROVIDER_TIMEOUT", d.Location.ProviderTimeout)

	v.SetDefault("DISTANCE_MATRIX_URL", d.DistanceMatrix.BaseURL)
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("DISTANCE_MATRIX_MODE", d.DistanceMatrix.Mode)
	v.SetDefault("DISTANCE_MATRIX_UNITS", d.DistanceMatrix.Units)

	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")

	v.SetDefault("REPORT_COOLDOWN", d.Reports.Cooldown)
	v.SetDefault("REPORT_NEARBY_RADIUS_KM", d.Reports.NearbyRadiusKm)
	v.SetDefault("REPORT_GEOHASH_PRECISION", d.Reports.GeohashPrecision)

	v.SetDefault("LOG_LEVEL", d.Log.Level)
	v.SetDefault("LOG_FORMAT", d.Log.Format)

	cfg := &Config{
		Server: ServerConfig{
			Port:            normalizePort(v.GetString("PORT")),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			PostgresDSN: v.GetString("DATABASE_URL"),
			MaxOpenConn: v.GetInt("PG_MAX_OPEN_CONNS"),
			MaxIdleConn: v.GetInt("PG_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET"),
			TokenTTL:   v.GetDuration("AUTH_TOKEN_TTL"),
			AdminToken: v.GetString("ADMIN_TOKEN"),
		},
		Location: LocationConfig{
			DatasetPath:     v.GetString("LOCATIONS_PATH"),
			CandidateLimit:  v.GetInt("LOCATION_CANDIDATE_LIMIT"),
			ProviderTimeout: v.GetDuration("LOCATION_PROVIDER_TIMEOUT"),
		},
		DistanceMatrix: DistanceMatrixConfig{
			BaseURL: v.GetString("DISTANCE_MATRIX_URL"),
			APIKey:  v.GetString("GOOGLE_MAPS_API_KEY"),
			Mode:    v.GetString("DISTANCE_MATRIX_MODE"),
			Units:   v.GetString("DISTANCE_MATRIX_UNITS"),
		},
		SMS: SMSConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_PHONE_NUMBER"),
		},
		Reports: ReportsConfig{
			Cooldown:         v.GetDuration("REPORT_COOLDOWN"),
			NearbyRadiusKm:   v.GetFloat64("REPORT_NEARBY_RADIUS_KM"),
			GeohashPrecision: v.GetInt("REPORT_GEOHASH_PRECISION"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: AUTH_TOKEN_TTL must be positive")
	}
	if c.Location.DatasetPath == "" {
		return errors.New("config: LOCATIONS_PATH must not be empty")
	}
	if c.Location.ProviderTimeout <= 0 {
		return errors.New("config: LOCATION_PROVIDER_TIMEOUT must be positive")
	}
	if c.Reports.NearbyRadiusKm <= 0 {
		return errors.New("config: REPORT_NEARBY_RADIUS_KM must be positive")
	}
	return nil
}

// normalizePort accepts "8080" as well as ":8080" or "host:8080".
func normalizePort(p string) string {
	if p == "" || strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}
