// Package config gathers runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/aicred/internal/export"
	"github.com/abhisek/aicred/internal/llm"
	"github.com/abhisek/aicred/internal/notify"
	"github.com/abhisek/aicred/internal/scheduler"
	"github.com/abhisek/aicred/internal/sharing"
	"github.com/abhisek/aicred/internal/subject"
)

// Config holds all runtime settings.
type Config struct {
	// DB is a SQLite path or a postgres:// / mysql:// DSN. Empty means the
	// default per-user database.
	DB string

	LLM llm.Config

	// SearchAPIKey authenticates transcript fetches.
	SearchAPIKey string

	// Subjects overrides the subject taxonomy labels, in priority order.
	Subjects []string

	Share    ShareConfig
	Email    notify.Config
	SFTP     export.SFTPConfig
	Schedule ScheduleConfig
}

// ShareConfig configures shareable dashboard links.
type ShareConfig struct {
	TTL time.Duration
	// Secret signs share tokens. When empty a stored random secret is used.
	Secret string
}

// ScheduleConfig configures the daily recompute.
type ScheduleConfig struct {
	At       string
	Location *time.Location
}

// Default returns a Config with defaults only.
func Default() Config {
	return Config{
		LLM:      llm.DefaultConfig(),
		Share:    ShareConfig{TTL: sharing.DefaultTTL},
		Email:    notify.Config{Region: "us-east-1", FromName: "AiCE"},
		SFTP:     export.SFTPConfig{Port: 22},
		Schedule: ScheduleConfig{At: scheduler.DefaultAt, Location: time.Local},
	}
}

// Load reads envFile (".env" when empty) if it exists, then builds the
// Config from the environment. Variables already set in the environment win
// over the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds the Config from AICRED_* variables.
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.DB = os.Getenv("AICRED_DB")

	if llmCfg, err := llm.ResolveConfig(); err == nil {
		cfg.LLM = llmCfg
	} else {
		// Keep the partial config; the error surfaces when a provider is
		// actually needed.
		cfg.LLM = llm.ConfigFromEnv()
	}

	cfg.SearchAPIKey = firstEnv("AICRED_SEARCHAPI_KEY", "SEARCHAPI_KEY")

	if v := os.Getenv("AICRED_SUBJECTS"); v != "" {
		cfg.Subjects = splitList(v)
	}

	if v := os.Getenv("AICRED_SHARE_TTL"); v != "" {
		d, err := parseTTL(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("AICRED_SHARE_TTL: %w", err))
		} else {
			cfg.Share.TTL = d
		}
	}
	cfg.Share.Secret = os.Getenv("AICRED_SHARE_SECRET")

	if v := firstEnv("AICRED_SES_REGION", "AWS_REGION"); v != "" {
		cfg.Email.Region = v
	}
	cfg.Email.FromEmail = os.Getenv("AICRED_EMAIL_FROM")
	if v := os.Getenv("AICRED_EMAIL_FROM_NAME"); v != "" {
		cfg.Email.FromName = v
	}
	cfg.Email.AppBaseURL = strings.TrimRight(os.Getenv("AICRED_APP_URL"), "/")

	cfg.SFTP.Host = os.Getenv("AICRED_SFTP_HOST")
	if v := os.Getenv("AICRED_SFTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("AICRED_SFTP_PORT: invalid port %q", v))
		} else {
			cfg.SFTP.Port = port
		}
	}
	cfg.SFTP.User = os.Getenv("AICRED_SFTP_USER")
	cfg.SFTP.Password = os.Getenv("AICRED_SFTP_PASSWORD")
	cfg.SFTP.KeyFile = os.Getenv("AICRED_SFTP_KEY_FILE")
	cfg.SFTP.RemoteDir = os.Getenv("AICRED_SFTP_DIR")
	cfg.SFTP.KnownHostsFile = os.Getenv("AICRED_SFTP_KNOWN_HOSTS")
	cfg.SFTP.InsecureIgnoreHostKey = envBool("AICRED_SFTP_INSECURE")

	if v := os.Getenv("AICRED_SCHEDULE_AT"); v != "" {
		cfg.Schedule.At = v
	}
	if v := os.Getenv("AICRED_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("AICRED_TIMEZONE: %w", err))
		} else {
			cfg.Schedule.Location = loc
		}
	}

	return cfg, errors.Join(errs...)
}

// Taxonomy returns the configured subject taxonomy.
func (c Config) Taxonomy() *subject.Taxonomy {
	if len(c.Subjects) == 0 {
		return subject.Default()
	}
	return subject.FromLabels(c.Subjects)
}

// parseTTL accepts Go durations plus a day suffix, e.g. "30d".
func parseTTL(v string) (time.Duration, error) {
	var d time.Duration
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(v); err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
