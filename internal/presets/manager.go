package presets

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
)

// Manager merges the built-in presets with a user store.
type Manager struct {
	store Store
}

// NewManager creates a manager over store. A nil store exposes only the built-ins.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// List returns the built-ins followed by user presets sorted by name.
func (m *Manager) List(ctx context.Context) ([]domain.Preset, error) {
	all := Defaults()
	if m.store == nil {
		return all, nil
	}
	user, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user presets: %w", err)
	}
	for _, p := range user {
		if IsDefault(p.Name) {
			continue
		}
		all = append(all, p)
	}
	return all, nil
}

// Names returns the preset names in List order.
func (m *Manager) Names(ctx context.Context) ([]string, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	return names, nil
}

// Get looks a preset up by name, built-ins first.
func (m *Manager) Get(ctx context.Context, name string) (domain.Preset, error) {
	for _, p := range Defaults() {
		if p.Name == name {
			return p, nil
		}
	}
	if m.store == nil {
		return domain.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return m.store.Get(ctx, name)
}

// Save validates and stores a user preset.
func (m *Manager) Save(ctx context.Context, preset domain.Preset) error {
	if IsDefault(preset.Name) {
		return fmt.Errorf("%w: %s", ErrReadOnlyPreset, preset.Name)
	}
	if m.store == nil {
		return fmt.Errorf("no preset store configured")
	}
	if err := config.ValidateParams(preset.Params); err != nil {
		return fmt.Errorf("preset %s: %w", preset.Name, err)
	}
	preset.BuiltIn = false
	return m.store.Save(ctx, preset)
}

// Delete removes a user preset.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if IsDefault(name) {
		return fmt.Errorf("%w: %s", ErrReadOnlyPreset, name)
	}
	if m.store == nil {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return m.store.Delete(ctx, name)
}

// Resolve returns the parameters of the named presets keyed by name, ready for
// the scenario runner. With no names every preset is returned.
func (m *Manager) Resolve(ctx context.Context, names []string) (map[string]domain.Params, error) {
	if len(names) == 0 {
		all, err := m.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]domain.Params, len(all))
		for _, p := range all {
			out[p.Name] = p.Params
		}
		return out, nil
	}

	out := make(map[string]domain.Params, len(names))
	for _, name := range names {
		p, err := m.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = p.Params
	}
	return out, nil
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}
