package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the pipeline needs before its first call. It is
// resolved once at startup and injected; components never read the
// environment themselves.
type Config struct {
	RiotAPIKey  string `validate:"required"`
	DatabaseURL string `validate:"required"`

	Region string
	Team   string

	// Roster optionally overrides the players table with a fixed list of
	// "GameName#TagLine" handles.
	Roster []string

	Workers     int `validate:"gte=0"`
	PageSize    int `validate:"gte=0"`
	MaxAttempts int `validate:"gte=0"`
	FullHistory bool
}

// Load reads the .env file when present, then the environment, and
// validates the result. This is the only failure allowed to terminate a
// run.
func Load() (*Config, error) {
	// Same lookup chain as running from the repo root or a cmd dir.
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		RiotAPIKey:  strings.TrimSpace(os.Getenv("RIOT_API_KEY")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Region:      strings.TrimSpace(os.Getenv("RIOT_REGION")),
		Team:        strings.TrimSpace(os.Getenv("ROSTER_TEAM")),
	}

	if roster := os.Getenv("ROSTER"); roster != "" {
		for _, nickname := range strings.Split(roster, ",") {
			if nickname = strings.TrimSpace(nickname); nickname != "" {
				cfg.Roster = append(cfg.Roster, nickname)
			}
		}
	}

	var err error
	if cfg.Workers, err = intEnv("FETCH_WORKERS"); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = intEnv("MATCH_PAGE_SIZE"); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = intEnv("RIOT_MAX_ATTEMPTS"); err != nil {
		return nil, err
	}
	cfg.FullHistory = boolEnv("FULL_HISTORY")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config: invalid")
	}
	return cfg, nil
}

func intEnv(name string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s must be an integer", name)
	}
	return v, nil
}

func boolEnv(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return err == nil && v
}
