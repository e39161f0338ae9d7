package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/veilcast/veilcast/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if VEILCAST_CONFIG is set
//  3. env (prefix VEILCAST_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("VEILCAST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: VEILCAST_ADDR, VEILCAST_DEDUPE_SIZE, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("VEILCAST_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "veilcast_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalid)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("max_leaderboard_limit must be positive: %w", ErrInvalid)
	case c.NotifyQueueSize < 1:
		return fmt.Errorf("notify_queue_size must be positive: %w", ErrInvalid)
	case c.BaselineAccuracy < 0 || c.BaselineAccuracy > model.MaxAccuracy:
		return fmt.Errorf("baseline_accuracy %d outside [0, %d]: %w", c.BaselineAccuracy, model.MaxAccuracy, ErrInvalid)
	}
	return nil
}
