package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Preset store drivers.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// Settings are the process-level options read from the environment.
// Command line flags take precedence over them.
type Settings struct {
	Horizon     int    `env:"HFP_HORIZON" envDefault:"60"`
	MaxHorizon  int    `env:"HFP_MAX_HORIZON" envDefault:"120"`
	PresetStore string `env:"HFP_PRESET_STORE" envDefault:"yaml"`
	PresetsPath string `env:"HFP_PRESETS_PATH" envDefault:"presets.yaml"`
	ListenAddr  string `env:"HFP_ADDR" envDefault:":8080"`
	Debug       bool   `env:"HFP_DEBUG" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads and validates Settings.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if s.MaxHorizon < 1 {
		return fmt.Errorf("HFP_MAX_HORIZON must be positive, got %d", s.MaxHorizon)
	}
	if err := ValidateHorizon(s.Horizon, s.MaxHorizon); err != nil {
		return fmt.Errorf("HFP_HORIZON: %w", err)
	}
	switch s.PresetStore {
	case StoreYAML, StoreSQLite:
	default:
		return fmt.Errorf("HFP_PRESET_STORE must be %q or %q, got %q", StoreYAML, StoreSQLite, s.PresetStore)
	}
	if s.PresetsPath == "" {
		return fmt.Errorf("HFP_PRESETS_PATH is required")
	}
	return nil
}
