package export

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Source:    "https://maps.example.test",
		Language:  domain.Arabic,
		ScrapedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Regions: []domain.Region{
			{ID: "1", Name: "الرياض", Cities: []domain.City{
				{ID: "21", RegionID: "1", Name: "الرياض", Districts: []domain.District{
					{ID: "2101", CityID: "21", Name: "العليا"},
					{ID: "2102", CityID: "21", Name: "الملز"},
				}},
				{ID: "25", RegionID: "1", Name: "الخرج", Districts: []domain.District{}},
			}},
			{ID: "2", Name: "مكة المكرمة", Cities: []domain.City{
				{ID: "44", RegionID: "2", Name: "جدة", Districts: []domain.District{
					{ID: "4401", CityID: "44", Name: "الحمراء"},
				}},
			}},
			{ID: "3", Name: "المدينة المنورة", Cities: []domain.City{}},
		},
	}
}

func TestSnapshotWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snap.json")
	w := NewSnapshotWriter(path, testLogger(), observability.NewMetricsForTesting())
	snap := testSnapshot()

	require.NoError(t, w.Export(context.Background(), snap))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestSnapshotWriter_FileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	w := NewSnapshotWriter(path, testLogger(), observability.NewMetricsForTesting())

	require.NoError(t, w.Export(context.Background(), testSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
	assert.Contains(t, string(data), "  \"regions\"")
	assert.Contains(t, string(data), "\"language\": \"ar\"")
}

func TestSnapshotWriter_PathBlocked(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "taken")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	w := NewSnapshotWriter(filepath.Join(blocked, "snap.json"), testLogger(), observability.NewMetricsForTesting())
	err := w.Export(context.Background(), testSnapshot())

	require.ErrorIs(t, err, domain.ErrExport)
}

func TestLoadSnapshot_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := LoadSnapshot(path)
	require.ErrorIs(t, err, domain.ErrParse)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read snapshot")
}
