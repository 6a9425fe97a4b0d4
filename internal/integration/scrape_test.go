package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splgeo/spl-areas/internal/adapter/export"
	"github.com/splgeo/spl-areas/internal/adapter/spl"
	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/mockspl"
	"github.com/splgeo/spl-areas/internal/observability"
	"github.com/splgeo/spl-areas/internal/pipeline"
)

// discardLogger keeps scrape noise out of test output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startPortal serves the embedded mock fixtures over a local listener.
func startPortal(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockspl.Handler(discardLogger()))
	t.Cleanup(srv.Close)
	return srv
}

// scrapeResult bundles everything a scrape run leaves behind.
type scrapeResult struct {
	snap         *domain.Snapshot
	snapshotPath string
	workbookPath string
}

// runScrape wires the real region source, portal client, and both exporters,
// the same way cmd/splareas does, and runs one scrape against portalURL.
func runScrape(t *testing.T, portalURL string, lang domain.Language) scrapeResult {
	t.Helper()

	dir := t.TempDir()
	res := scrapeResult{
		snapshotPath: filepath.Join(dir, "areas.json"),
		workbookPath: filepath.Join(dir, "areas.xlsx"),
	}

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	regions := spl.NewRegionSource("", logger)
	client := spl.NewClient(portalURL, 5*time.Second, logger, metrics)
	exporters := []pipeline.Exporter{
		export.NewSnapshotWriter(res.snapshotPath, logger, metrics),
		export.NewWorkbookWriter(res.workbookPath, logger, metrics),
	}

	p := pipeline.New(regions, client, exporters, lang, portalURL, 3, logger, metrics)
	require.NoError(t, p.Run(context.Background()))

	snap, err := export.LoadSnapshot(res.snapshotPath)
	require.NoError(t, err)
	res.snap = snap
	return res
}

// cityIDs is a name-free view of a city for cross-language comparison.
type cityIDs struct {
	ID        string
	RegionID  string
	Districts []string
}

func idTree(s *domain.Snapshot) map[string][]cityIDs {
	tree := make(map[string][]cityIDs, len(s.Regions))
	for _, region := range s.Regions {
		cities := make([]cityIDs, 0, len(region.Cities))
		for _, city := range region.Cities {
			ids := make([]string, 0, len(city.Districts))
			for _, d := range city.Districts {
				ids = append(ids, d.ID)
			}
			cities = append(cities, cityIDs{ID: city.ID, RegionID: city.RegionID, Districts: ids})
		}
		tree[region.ID] = cities
	}
	return tree
}

// TestScrape_EndToEnd runs a full Arabic scrape against the mock portal and
// checks the snapshot tree, the skip rules, and workbook parity.
func TestScrape_EndToEnd(t *testing.T) {
	portal := startPortal(t)
	res := runScrape(t, portal.URL, domain.Arabic)
	snap := res.snap

	assert.Empty(t, domain.ValidateSnapshot(snap))
	assert.Equal(t, portal.URL, snap.Source)
	assert.Equal(t, domain.Arabic, snap.Language)
	assert.False(t, snap.ScrapedAt.IsZero())

	require.Len(t, snap.Regions, 13)
	var regionIDs []string
	for _, r := range snap.Regions {
		regionIDs = append(regionIDs, r.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13"}, regionIDs)

	riyadh := snap.Regions[0]
	assert.Equal(t, "الرياض", riyadh.Name)
	require.Len(t, riyadh.Cities, 3)
	// Cities sort by district count, so the capital with its three
	// districts leads.
	assert.Equal(t, "21", riyadh.Cities[0].ID)
	assert.Equal(t, "23", riyadh.Cities[1].ID)
	assert.Equal(t, "25", riyadh.Cities[2].ID)
	require.Len(t, riyadh.Cities[0].Districts, 3)
	assert.Equal(t, "العليا", riyadh.Cities[0].Districts[0].Name)
	assert.Empty(t, riyadh.Cities[2].Districts)

	// Equal district counts in region 2 fall back to city id order.
	makkah := snap.Regions[1]
	require.Len(t, makkah.Cities, 3)
	assert.Equal(t, "41", makkah.Cities[0].ID)
	assert.Equal(t, "44", makkah.Cities[1].ID)
	assert.Equal(t, "46", makkah.Cities[2].ID)

	// The fixture city under unknown region 99 must not survive.
	for _, r := range snap.Regions {
		for _, c := range r.Cities {
			assert.NotEqual(t, "990", c.ID)
		}
	}

	// Regions the fixtures leave empty still appear, with no cities.
	assert.Empty(t, snap.Regions[2].Cities)

	// The workbook carries exactly the snapshot's rows.
	rows, err := export.ReadWorkbook(res.workbookPath)
	require.NoError(t, err)
	want := snap.Triples()
	for i := range want {
		want[i].Region = export.SheetName(want[i].Region)
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("workbook rows mismatch (-want +got):\n%s", diff)
	}
}

// TestScrape_LanguageModesAgreeOnIDs scrapes twice, once per language, and
// verifies the id structure is identical while the names differ.
func TestScrape_LanguageModesAgreeOnIDs(t *testing.T) {
	portal := startPortal(t)

	ar := runScrape(t, portal.URL, domain.Arabic)
	en := runScrape(t, portal.URL, domain.English)

	assert.Equal(t, domain.Arabic, ar.snap.Language)
	assert.Equal(t, domain.English, en.snap.Language)

	if diff := cmp.Diff(idTree(ar.snap), idTree(en.snap)); diff != "" {
		t.Fatalf("id structure differs between languages (-ar +en):\n%s", diff)
	}

	assert.Equal(t, "الرياض", ar.snap.Regions[0].Name)
	assert.Equal(t, "Riyadh", en.snap.Regions[0].Name)
	assert.Equal(t, "المنطقة الشرقية", ar.snap.Regions[4].Name)
	assert.Equal(t, "Eastern", en.snap.Regions[4].Name)

	arCity := ar.snap.Regions[0].Cities[0]
	enCity := en.snap.Regions[0].Cities[0]
	assert.Equal(t, arCity.ID, enCity.ID)
	assert.Equal(t, "الرياض", arCity.Name)
	assert.Equal(t, "Riyadh", enCity.Name)
	require.NotEmpty(t, enCity.Districts)
	assert.Equal(t, "Al Olaya", enCity.Districts[0].Name)
}

// TestScrape_PortalFailureLeavesNoFiles verifies that a dead portal aborts
// the run before either output file is created.
func TestScrape_PortalFailureLeavesNoFiles(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance window", http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "areas.json")
	workbookPath := filepath.Join(dir, "areas.xlsx")

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	client := spl.NewClient(down.URL, 2*time.Second, logger, metrics)
	exporters := []pipeline.Exporter{
		export.NewSnapshotWriter(snapshotPath, logger, metrics),
		export.NewWorkbookWriter(workbookPath, logger, metrics),
	}
	p := pipeline.New(spl.NewRegionSource("", logger), client, exporters, domain.Arabic, down.URL, 2, logger, metrics)

	err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrFetch)

	_, statErr := os.Stat(snapshotPath)
	assert.True(t, os.IsNotExist(statErr), "snapshot must not be written on a failed scrape")
	_, statErr = os.Stat(workbookPath)
	assert.True(t, os.IsNotExist(statErr), "workbook must not be written on a failed scrape")
}
