package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mind-engage/progress-tracker/internal/scoring"
)

// Mode picks the deployment profile. Offline is a single-machine setup with
// open report generation; online serves browsers on the public origin and
// requires a token with report:generate.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode    Mode          `mapstructure:"mode"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type HTTPConfig struct {
	Addr               string   `mapstructure:"addr"`
	CORSOriginsOnline  []string `mapstructure:"cors_origins_online"`
	CORSOriginsOffline []string `mapstructure:"cors_origins_offline"`
	MaxBodyBytes       int64    `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json|console
}

// ScoringConfig holds the fixed subject count and full marks.
type ScoringConfig struct {
	SubjectCount   int `mapstructure:"subject_count"`
	QuizMark       int `mapstructure:"quiz_mark"`
	AssignmentMark int `mapstructure:"assignment_mark"`
	EndtermMark    int `mapstructure:"endterm_mark"`

	// ZeroMeansNotAttempted reads a 0 on assignment 2 or the end-term as
	// "not attempted", for forms that only offer a 0..N slider.
	ZeroMeansNotAttempted bool `mapstructure:"zero_means_not_attempted"`
}

// Scale converts the configured full marks to a scoring.Scale.
func (c ScoringConfig) Scale() scoring.Scale {
	return scoring.Scale{
		MandatoryQuizzes: scoring.DefaultScale.MandatoryQuizzes,
		QuizMark:         c.QuizMark,
		AssignmentMark:   c.AssignmentMark,
		EndtermMark:      c.EndtermMark,
	}
}

// ArchiveConfig controls the optional report log + export archive.
type ArchiveConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	DBDriver string `mapstructure:"db_driver"` // sqlite|postgres
	DBDSN    string `mapstructure:"db_dsn"`
	BlobPath string `mapstructure:"blob_path"`
}

type AuthConfig struct {
	HMACSecret    string `mapstructure:"hmac_secret"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassHash string `mapstructure:"admin_pass_hash"` // bcrypt
}

// Load reads defaults, then the config file, then TRACKER_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins_online", []string{"https://tracker.mindengage.ai"})
	v.SetDefault("http.cors_origins_offline", []string{"http://localhost:3000", "http://localhost:3010"})
	v.SetDefault("http.max_body_bytes", 1<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scoring.subject_count", 5)
	v.SetDefault("scoring.quiz_mark", scoring.DefaultScale.QuizMark)
	v.SetDefault("scoring.assignment_mark", scoring.DefaultScale.AssignmentMark)
	v.SetDefault("scoring.endterm_mark", scoring.DefaultScale.EndtermMark)
	v.SetDefault("scoring.zero_means_not_attempted", false)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.db_driver", "sqlite")
	v.SetDefault("archive.db_dsn", "")
	v.SetDefault("archive.blob_path", "./data")

	v.SetDefault("auth.hmac_secret", "")
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.admin_pass_hash", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tracker")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the scoring engine cannot work without.
func (c *Config) Validate() error {
	if c.Scoring.SubjectCount < 1 {
		return fmt.Errorf("config: scoring.subject_count must be at least 1")
	}
	if c.Scoring.QuizMark <= 0 || c.Scoring.AssignmentMark <= 0 || c.Scoring.EndtermMark <= 0 {
		return fmt.Errorf("config: scoring full marks must be positive")
	}
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Archive.Enabled {
		switch c.Archive.DBDriver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("config: unsupported archive.db_driver %q", c.Archive.DBDriver)
		}
	}
	return nil
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c *Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.HTTP.CORSOriginsOnline
	}
	return c.HTTP.CORSOriginsOffline
}

// RequireAuth reports whether the server needs signed tokens at all.
func (c *Config) RequireAuth() bool {
	return c.Mode == ModeOnline || c.Archive.Enabled
}

// ValidateServe adds the checks that only matter for the HTTP server.
func (c *Config) ValidateServe() error {
	if c.RequireAuth() && len(c.Auth.HMACSecret) < 16 {
		return fmt.Errorf("config: auth.hmac_secret must be at least 16 characters in online mode or when archive is enabled")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("config: http.max_body_bytes must not be negative")
	}
	return nil
}
