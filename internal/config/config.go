package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the API and admin binaries.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"3001"`

	DatabaseURL   string        `envconfig:"DATABASE_URL" default:"data/nerv.sqlite"`
	DBMaxOpen     int           `envconfig:"DB_MAX_OPEN" default:"25"`
	DBMaxIdle     int           `envconfig:"DB_MAX_IDLE" default:"25"`
	DBMaxLifetime time.Duration `envconfig:"DB_MAX_LIFETIME" default:"5m"`

	JWTSecret  string        `envconfig:"JWT_SECRET"`
	JWTIssuer  string        `envconfig:"JWT_ISSUER" default:"nerv"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	AuthRateLimit      int      `envconfig:"AUTH_RATE_LIMIT" default:"20"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// ErrMissingSecret is returned when no signing key is configured outside test mode.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	cfg, err := LoadDatabase()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load without the signing-key checks, for tools that only
// touch the database.
func LoadDatabase() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	if c.JWTSecret == "" {
		if !c.IsTest() {
			return fmt.Errorf("config: %w (APP_ENV=%s)", ErrMissingSecret, c.AppEnv)
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("config: generate test secret: %w", err)
		}
		c.JWTSecret = secret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.AuthRateLimit <= 0 {
		return fmt.Errorf("config: AUTH_RATE_LIMIT must be positive, got %d", c.AuthRateLimit)
	}
	return nil
}

// IsTest reports whether the process runs in test mode.
func (c *Config) IsTest() bool {
	return c != nil && c.AppEnv == "test"
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
