package docmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// Format selects the on-disk encoding of a Map.
type Format string

const (
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

const lockRetryDelay = 50 * time.Millisecond

// ErrUnknownFormat is returned for unsupported map formats.
var ErrUnknownFormat = errors.New("unknown map format")

// ParseFormat validates a configured format. An empty value infers the format
// from the map path extension.
func ParseFormat(value, path string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return FormatFromPath(path), nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

// FormatFromPath infers the map format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// Save writes m to path. Concurrent writers are serialized on path+".lock",
// and the map is written to a temporary file first and renamed into place so
// readers never observe a partial map.
func Save(ctx context.Context, path string, m Map, format Format) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("map path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure map directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire map lock: %w", err)
	}
	if !locked {
		return errors.New("acquire map lock: not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	switch format {
	case FormatJSON, "":
		err = writeJSON(tmp, m)
	case FormatSQLite:
		err = writeSQLite(ctx, tmp, m)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace map %s: %w", path, err)
	}
	return nil
}

// Load reads a map from path.
func Load(ctx context.Context, path string, format Format) (Map, error) {
	switch format {
	case FormatJSON, "":
		return readJSON(path)
	case FormatSQLite:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open map %s: %w", path, err)
		}
		return readSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadIndex reads a map and builds its Index. A missing file yields a nil
// Index and no error: the map is optional at runtime.
func LoadIndex(ctx context.Context, path string, format Format) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	m, err := Load(ctx, path, format)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return NewIndex(m), nil
}

func writeJSON(path string, m Map) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create map %s: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	if err := json.NewEncoder(file).Encode(m); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode map: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close map %s: %w", path, err)
	}
	return nil
}

func readJSON(path string) (Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer file.Close()

	var m Map
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode map %s: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}
