package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bardclash.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// AuthJWTSecret verifies session tokens minted by the identity
	// service. The server refuses to start without it.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET,required"`
	// ServiceKey guards the tournament match-creation endpoint; empty
	// disables the endpoint.
	ServiceKey string `env:"SERVICE_KEY"`

	JudgeAPIURL  string        `env:"JUDGE_API_URL" envDefault:"https://api.anthropic.com/v1/messages"`
	JudgeAPIKey  string        `env:"JUDGE_API_KEY"`
	JudgeModel   string        `env:"JUDGE_MODEL" envDefault:"claude-sonnet-4-5-20250929"`
	JudgeTimeout time.Duration `env:"JUDGE_TIMEOUT" envDefault:"15s"`

	MatchWait     time.Duration `env:"MATCH_WAIT" envDefault:"30s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	RoomMaxAge    time.Duration `env:"ROOM_MAX_AGE" envDefault:"30m"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
