// Package presets manages named parameter sets: the read-only built-ins and
// user presets persisted in a YAML file or a SQLite database.
package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested name.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrReadOnlyPreset is returned when saving over or deleting a built-in preset.
	ErrReadOnlyPreset = errors.New("built-in presets are read-only")
)

// Store persists user presets.
type Store interface {
	List(ctx context.Context) ([]domain.Preset, error)
	Get(ctx context.Context, name string) (domain.Preset, error)
	// Save inserts or replaces the preset with the same name.
	Save(ctx context.Context, preset domain.Preset) error
	Delete(ctx context.Context, name string) error
	Close() error
}

// OpenStore opens the store selected by driver at path.
func OpenStore(driver, path string) (Store, error) {
	switch driver {
	case config.StoreYAML:
		return NewFileStore(path), nil
	case config.StoreSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown preset store %q", driver)
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("preset name is required")
	}
	return name, nil
}
