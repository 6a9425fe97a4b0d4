package spl

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splgeo/spl-areas/internal/domain"
)

func testRegionSource(htmlPath string) *RegionSource {
	return NewRegionSource(htmlPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegionSource_ArabicFromEmbeddedMarkup(t *testing.T) {
	regions, err := testRegionSource("").Regions(domain.Arabic)
	require.NoError(t, err)

	require.Len(t, regions, 13)
	for i, region := range regions {
		assert.Equal(t, strconv.Itoa(i+1), region.ID)
		assert.NotEmpty(t, region.Name)
	}
	assert.Equal(t, "الرياض", regions[0].Name)
	assert.Equal(t, "الجوف", regions[12].Name)
}

func TestRegionSource_EnglishTable(t *testing.T) {
	regions, err := testRegionSource("").Regions(domain.English)
	require.NoError(t, err)

	require.Len(t, regions, 13)
	assert.Equal(t, domain.Region{ID: "1", Name: "Riyadh"}, regions[0])
	assert.Equal(t, domain.Region{ID: "5", Name: "Eastern"}, regions[4])
	assert.Equal(t, domain.Region{ID: "13", Name: "Al Jawf"}, regions[12])
}

func TestRegionSource_EnglishCallerCannotMutateTable(t *testing.T) {
	src := testRegionSource("")

	first, err := src.Regions(domain.English)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := src.Regions(domain.English)
	require.NoError(t, err)
	assert.Equal(t, "Riyadh", second[0].Name)
}

func TestRegionSource_OverrideMarkupPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.html")
	markup := `<select>
		<option id="1">الرياض</option>
		<option id="two">مكة المكرمة</option>
		<option id="3">   </option>
		<option id="4">القصيم</option>
	</select>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o600))

	regions, err := testRegionSource(path).Regions(domain.Arabic)
	require.NoError(t, err)

	// Non-numeric id and empty name are skipped, the rest survive.
	require.Len(t, regions, 2)
	assert.Equal(t, domain.Region{ID: "1", Name: "الرياض"}, regions[0])
	assert.Equal(t, domain.Region{ID: "4", Name: "القصيم"}, regions[1])
}

func TestRegionSource_OverrideMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.html")

	_, err := testRegionSource(path).Regions(domain.Arabic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read regions markup")
}

func TestRegionSource_NoOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>nothing here</body></html>"), 0o600))

	_, err := testRegionSource(path).Regions(domain.Arabic)
	require.ErrorIs(t, err, domain.ErrParse)
}
