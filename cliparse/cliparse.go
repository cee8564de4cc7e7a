package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SessionTTL      time.Duration
	LogLevel        string
	SSEKeepalive    time.Duration
	LoginRateLimit  int // attempts per IP per minute on login and token endpoints; 0 disables
}

// minimum length for JWT_SECRET
const minSecretLen = 32

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("routeboard", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	fs.DurationVar(&cfg.AccessTokenTTL, "access-ttl", 0, "API access token lifetime")
	fs.DurationVar(&cfg.RefreshTokenTTL, "refresh-ttl", 0, "API refresh token lifetime")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Browser session lifetime")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.SSEKeepalive, "keepalive", 0, "Event stream keepalive interval")
	fs.IntVar(&cfg.LoginRateLimit, "login-rate", -1, "Login attempts per IP per minute (0 disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:routeboard.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLen)
	}

	var err error
	if cfg.AccessTokenTTL, err = durationFromEnv(cfg.AccessTokenTTL, "ACCESS_TOKEN_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationFromEnv(cfg.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationFromEnv(cfg.SessionTTL, "SESSION_TTL", 14*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SSEKeepalive, err = durationFromEnv(cfg.SSEKeepalive, "SSE_KEEPALIVE", 15*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if cfg.LoginRateLimit < 0 {
		cfg.LoginRateLimit = 20
		if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return Config{}, errors.New("invalid LOGIN_RATE_LIMIT env variable")
			}
			cfg.LoginRateLimit = n
		}
	}

	return cfg, nil
}

// durationFromEnv keeps a flag value, else reads key, else uses def.
// Zero means unset; anything negative is rejected.
func durationFromEnv(current time.Duration, key string, def time.Duration) (time.Duration, error) {
	if current < 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	if current != 0 {
		return current, nil
	}
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
