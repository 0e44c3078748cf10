package indexing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileSink writes finished units as doc-N.json files under a directory, in
// the shape the search engine's update handler accepts directly.
type FileSink struct {
	dir    string
	logger *zap.Logger
}

// NewFileSink creates the target directory if needed.
func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

// Clean removes the document files left by a previous run. A fresh run must
// not post stale units alongside its own.
func (s *FileSink) Clean() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "doc-*.json"))
	if err != nil {
		return fmt.Errorf("list document files: %w", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

// WriteUnit persists one unit as an indented JSON array.
func (s *FileSink) WriteUnit(seq int, documents []Document) error {
	data, err := json.MarshalIndent(documents, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize unit %d: %w", seq, err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("doc-%d.json", seq))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write unit %d: %w", seq, err)
	}
	s.logger.Info("generated document file",
		zap.String("path", path),
		zap.Int("documents", len(documents)),
	)
	return nil
}

// UnitFiles returns the document files under dir in numeric sequence order.
func UnitFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "doc-*.json"))
	if err != nil {
		return nil, fmt.Errorf("list document files: %w", err)
	}
	ordered := make([]string, 0, len(matches))
	byName := make(map[string]bool, len(matches))
	for _, path := range matches {
		byName[filepath.Base(path)] = true
	}
	for seq := 1; ; seq++ {
		name := fmt.Sprintf("doc-%d.json", seq)
		if !byName[name] {
			break
		}
		ordered = append(ordered, filepath.Join(dir, name))
	}
	if len(ordered) != len(matches) {
		return nil, fmt.Errorf("document files are not a contiguous sequence: found %d, usable %d", len(matches), len(ordered))
	}
	return ordered, nil
}
