package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/vignette-engine/pkg/session"
	pkgstorage "github.com/jwebster45206/vignette-engine/pkg/storage"
)

// Level operations (filesystem-backed)

func (m *MemoryStore) levelsDir() string {
	return filepath.Join(m.dataDir, "levels")
}

// ListLevels returns the names of every level file, without extension
func (m *MemoryStore) ListLevels(ctx context.Context) ([]string, error) {
	var names []string

	err := filepath.WalkDir(m.levelsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isLevelFile(path) {
			return nil
		}
		names = append(names, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		return nil
	})
	if err != nil {
		m.logger.Error("Failed to walk levels directory", "error", err)
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// GetLevel loads and validates a level by name
func (m *MemoryStore) GetLevel(ctx context.Context, name string) (session.Config, error) {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return session.Config{}, fmt.Errorf("%w: %q", pkgstorage.ErrLevelNotFound, name)
	}

	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(m.levelsDir(), name+ext)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return session.Config{}, fmt.Errorf("failed to stat level file: %w", err)
		}

		m.logger.Debug("Loading level", "name", name, "full_path", path)
		return session.LoadConfig(path)
	}

	return session.Config{}, fmt.Errorf("%w: %s", pkgstorage.ErrLevelNotFound, name)
}

func isLevelFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
