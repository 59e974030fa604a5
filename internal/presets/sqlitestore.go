package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/domain"
	_ "modernc.org/sqlite"
)

const presetSchema = `
CREATE TABLE IF NOT EXISTS presets (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	params      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
)`

// SQLiteStore persists user presets in a SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens the database at path and creates the schema if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(presetSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create preset schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, description, params, created_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	out := []domain.Preset{}
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preset{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Preset{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT name, description, params, created_at FROM presets WHERE name = ?`, name)
	preset, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return preset, err
}

func (s *SQLiteStore) Save(ctx context.Context, preset domain.Preset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name, err := normalizeName(preset.Name)
	if err != nil {
		return err
	}
	createdAt := preset.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	params, err := json.Marshal(preset.Params)
	if err != nil {
		return fmt.Errorf("encode preset params: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO presets (name, description, params, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   description = excluded.description,
		   params = excluded.params,
		   created_at = excluded.created_at`,
		name, strings.TrimSpace(preset.Description), string(params), toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("save preset %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (domain.Preset, error) {
	var (
		preset    domain.Preset
		params    string
		createdAt int64
	)
	if err := row.Scan(&preset.Name, &preset.Description, &params, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Preset{}, err
		}
		return domain.Preset{}, fmt.Errorf("scan preset: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &preset.Params); err != nil {
		return domain.Preset{}, fmt.Errorf("decode params of preset %s: %w", preset.Name, err)
	}
	preset.CreatedAt = fromMillis(createdAt)
	return preset, nil
}
