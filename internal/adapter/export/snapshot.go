// Package export writes a scraped snapshot to its two on-disk forms: a JSON
// snapshot that keeps identifiers, and an Excel workbook that mirrors the
// portal UI's region/city/district layout.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

// SnapshotWriter persists the full snapshot as indented JSON. This is the
// lossless form; the workbook drops identifiers and empty regions.
type SnapshotWriter struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewSnapshotWriter(path string, logger *slog.Logger, metrics *observability.Metrics) *SnapshotWriter {
	return &SnapshotWriter{path: path, logger: logger, metrics: metrics}
}

// Export writes the snapshot, creating parent directories as needed.
func (w *SnapshotWriter) Export(_ context.Context, snap *domain.Snapshot) error {
	start := time.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w: %w", domain.ErrExport, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w: %w", domain.ErrExport, err)
	}
	if err := os.WriteFile(w.path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w: %w", domain.ErrExport, err)
	}

	w.metrics.ExportDuration.WithLabelValues("snapshot").Observe(time.Since(start).Seconds())
	w.logger.Info("snapshot written", "path", w.path, "bytes", len(data))
	return nil
}

// LoadSnapshot reads a snapshot previously written by Export.
func LoadSnapshot(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w: %w", domain.ErrParse, err)
	}
	return &snap, nil
}
