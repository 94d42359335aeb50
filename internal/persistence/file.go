package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/certidao-digital/atendimento/internal/config"
	"github.com/certidao-digital/atendimento/internal/domain"
)

// SnapshotFile persists the whole ticket collection as a single JSON
// document, replaced atomically on every write. A crash mid-write leaves the
// previous snapshot intact because the new content lands in a temp file that
// is renamed over the old one only after a successful fsync.
type SnapshotFile struct {
	path   string
	logger *zap.Logger
}

// NewSnapshotFile prepares the snapshot location, creating parent
// directories as needed.
func NewSnapshotFile(cfg config.StoreConfig, logger *zap.Logger) (*SnapshotFile, error) {
	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &SnapshotFile{path: cfg.FilePath, logger: logger}, nil
}

// Path returns the snapshot file location.
func (f *SnapshotFile) Path() string {
	return f.path
}

// Load reads the current snapshot. A missing file is an empty collection.
func (f *SnapshotFile) Load() ([]domain.Ticket, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Ticket{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return tickets, nil
}

// Write replaces the snapshot with the given collection. The temp file is
// created in the same directory so the rename stays on one filesystem.
func (f *SnapshotFile) Write(tickets []domain.Ticket) error {
	data, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".tickets-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	if f.logger != nil {
		f.logger.Debug("snapshot persisted", zap.Int("tickets", len(tickets)))
	}
	return nil
}
