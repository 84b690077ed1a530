package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/PatrickMassot/lean-gym/internal/logging"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/caarlos0/env/v11"
)

// Engine kinds.
const (
	EngineRewrite = "rewrite"
	EngineProcess = "process"
)

// Env is the process configuration read from the environment.
// Command line flags override individual fields after parsing.
type Env struct {
	LeanPath string `env:"LEAN_PATH,required,notEmpty"`

	Engine       string `env:"LEAN_GYM_ENGINE" envDefault:"rewrite"`
	EngineConfig string `env:"LEAN_GYM_ENGINE_CONFIG" envDefault:"engine.yaml"`

	Debug         bool   `env:"LEAN_GYM_DEBUG"`
	LogFile       string `env:"LEAN_GYM_LOG_FILE"`
	LogMaxSize    int    `env:"LEAN_GYM_LOG_MAX_SIZE" envDefault:"1"`
	LogMaxBackups int    `env:"LEAN_GYM_LOG_MAX_BACKUPS" envDefault:"2"`
	LogMaxAge     int    `env:"LEAN_GYM_LOG_MAX_AGE" envDefault:"30"`

	Transcript           string        `env:"LEAN_GYM_TRANSCRIPT"`
	TranscriptMaxSize    int           `env:"LEAN_GYM_TRANSCRIPT_MAX_SIZE" envDefault:"10"`
	TranscriptMaxBackups int           `env:"LEAN_GYM_TRANSCRIPT_MAX_BACKUPS" envDefault:"5"`
	TranscriptMaxAge     int           `env:"LEAN_GYM_TRANSCRIPT_MAX_AGE" envDefault:"30"`
	TranscriptCompress   bool          `env:"LEAN_GYM_TRANSCRIPT_COMPRESS"`
	TranscriptTTL        time.Duration `env:"LEAN_GYM_TRANSCRIPT_TTL"`
	RedisAddr            string        `env:"LEAN_GYM_REDIS_ADDR"`
	RedisPassword        string        `env:"LEAN_GYM_REDIS_PASSWORD"`
	RedisDB              int           `env:"LEAN_GYM_REDIS_DB"`

	MetricsAddr string `env:"LEAN_GYM_METRICS_ADDR"`
}

// Load parses the process environment.
func Load() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("%w: %w", domain.ErrEnv, err)
	}
	return cfg, nil
}

// LoadFrom parses an explicit environment instead of the process one.
func LoadFrom(environ map[string]string) (Env, error) {
	var cfg Env
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("%w: %w", domain.ErrEnv, err)
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c Env) Validate() error {
	switch c.Engine {
	case EngineRewrite, EngineProcess:
	default:
		return fmt.Errorf("%w: unknown engine %q (want %s or %s)", domain.ErrUsage, c.Engine, EngineRewrite, EngineProcess)
	}
	if c.LogMaxSize < 0 || c.LogMaxBackups < 0 || c.LogMaxAge < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", domain.ErrEnv)
	}
	if c.TranscriptMaxSize < 0 || c.TranscriptMaxBackups < 0 || c.TranscriptMaxAge < 0 {
		return fmt.Errorf("%w: transcript rotation limits must not be negative", domain.ErrEnv)
	}
	return nil
}

// LogLevel is Debug when debugging is on, Info otherwise.
func (c Env) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Rotation returns the log file rotation policy.
func (c Env) Rotation() logging.Rotation {
	return logging.Rotation{
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
	}
}
