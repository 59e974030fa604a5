package presets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileStore keeps user presets in a single YAML file. Writes are serialized
// and replace the file atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type presetFile struct {
	Presets []presetNode `yaml:"presets"`
}

type presetNode struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	CreatedAt   time.Time      `yaml:"created_at,omitempty"`
	Params      map[string]any `yaml:"params"`
}

// NewFileStore creates a store backed by path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) List(ctx context.Context) ([]domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Get(ctx context.Context, name string) (domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preset{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return domain.Preset{}, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
}

func (s *FileStore) Save(ctx context.Context, preset domain.Preset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := normalizeName(preset.Name)
	if err != nil {
		return err
	}
	preset.Name = name
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range all {
		if all[i].Name == preset.Name {
			all[i] = preset
			replaced = true
		}
	}
	if !replaced {
		all = append(all, preset)
	}
	return s.write(all)
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, p := range all {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(all) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return s.write(kept)
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() ([]domain.Preset, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Preset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets %s: %w", s.path, err)
	}

	var raw presetFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse presets %s: %w", s.path, err)
	}

	out := make([]domain.Preset, 0, len(raw.Presets))
	for _, node := range raw.Presets {
		params, err := config.ParamsFromMap(node.Params)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", node.Name, err)
		}
		out = append(out, domain.Preset{
			Name:        node.Name,
			Description: node.Description,
			CreatedAt:   node.CreatedAt,
			Params:      params,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) write(all []domain.Preset) error {
	raw := presetFile{Presets: make([]presetNode, 0, len(all))}
	for _, p := range all {
		raw.Presets = append(raw.Presets, presetNode{
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			Params:      config.ParamsToMap(p.Params),
		})
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to render presets: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create preset directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".presets-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
