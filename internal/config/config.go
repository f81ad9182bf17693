// Package config loads runtime configuration from the environment.
//
// PRECEDENCE (highest first):
//  1. Real environment variables
//  2. A .env file in the working directory, if present (godotenv never
//     overrides a variable that is already set)
//  3. The default= values in the struct tags below
//
// envdecode reads the `env:"NAME,default=..."` tags and converts each value
// to the field's type, including time.Duration ("168h", "30s").
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset. It is long enough to pass
// Validate so the server starts out of the box, and the server logs a
// warning when it is in use.
const DevJWTSecret = "dev-only-secret-change-me"

// MinJWTSecretLength matches the TokenService's own check.
const MinJWTSecretLength = 16

// Config is the server configuration.
type Config struct {
	Port            int           `env:"PORT,default=3000"`
	DBDriver        string        `env:"DB_DRIVER,default=sqlite"`
	DBDSN           string        `env:"DB_DSN,default=data/journal.db"`
	JWTSecret       string        `env:"JWT_SECRET,default=dev-only-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=168h"`
	BcryptCost      int           `env:"BCRYPT_COST,default=12"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=text"`
	CORSOrigins     string        `env:"CORS_ORIGINS,default=*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
}

// Load reads .env (if any) and the environment into a Config and validates it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decoding environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		errs = append(errs, errors.New("DB_DSN must not be empty"))
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// UsingDevSecret reports whether JWT_SECRET was left at its default.
func (c Config) UsingDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}

// ClientConfig configures the command-line client.
type ClientConfig struct {
	APIURL    string `env:"JOURNAL_API_URL,default=http://localhost:3000"`
	TokenFile string `env:"JOURNAL_TOKEN_FILE"`
}

// LoadClient reads the client settings. TokenFile defaults to
// $HOME/.config/training-journal/token (via os.UserConfigDir).
func LoadClient() (ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return ClientConfig{}, fmt.Errorf("config: decoding environment: %w", err)
	}

	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("config: locating config dir: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "training-journal", "token")
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}
