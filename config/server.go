package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Server holds the process-level settings of the HTTP service.
type Server struct {

	// Environment selects log formatting: "development" logs human-readable
	// debug output, anything else logs JSON.
	Environment string `env:"LATEFEE_ENV" env-default:"development"`

	// HTTPPort is the port the API listens on.
	HTTPPort int `env:"LATEFEE_HTTP_PORT" env-default:"8080"`

	// DBPath is the SQLite database path. ":memory:" keeps everything in RAM.
	DBPath string `env:"LATEFEE_DB_PATH" env-default:"latefee.db"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `env:"LATEFEE_LOG_LEVEL" env-default:"info"`

	// ConfigFile optionally seeds the fee configuration (YAML or JSON) when
	// the store is empty.
	ConfigFile string `env:"LATEFEE_CONFIG_FILE"`

	// MaxSpanDays caps how far apart due and return may be. 0 disables the cap.
	MaxSpanDays int `env:"LATEFEE_MAX_SPAN_DAYS" env-default:"3650"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string `env:"LATEFEE_CORS_ORIGINS" env-default:"http://localhost:5173,http://localhost:8080" env-separator:","`
}

// LoadServer reads the server settings from the environment.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, &ValidationError{Field: "LATEFEE_HTTP_PORT", Message: fmt.Sprintf("out of range: %d", cfg.HTTPPort)}
	}
	if cfg.MaxSpanDays < 0 {
		return nil, &ValidationError{Field: "LATEFEE_MAX_SPAN_DAYS", Message: "must not be negative"}
	}
	return &cfg, nil
}

// MaxSpan converts MaxSpanDays into a duration for fee.Calculator.
func (s Server) MaxSpan() time.Duration {
	return time.Duration(s.MaxSpanDays) * 24 * time.Hour
}
