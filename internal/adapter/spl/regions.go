package spl

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/splgeo/spl-areas/internal/domain"
)

// The portal serves no endpoint for the regions themselves; its UI inlines
// them as a <select>. This snippet is that markup, captured from the page.
//
//go:embed regions_list.html
var regionsHTML []byte

// englishRegions carries the English names of the 13 regions. The markup
// snippet only has Arabic names; IDs match its option ids.
var englishRegions = []domain.Region{
	{ID: "1", Name: "Riyadh"},
	{ID: "2", Name: "Makkah"},
	{ID: "3", Name: "Madinah"},
	{ID: "4", Name: "Al Qassim"},
	{ID: "5", Name: "Eastern"},
	{ID: "6", Name: "Asir"},
	{ID: "7", Name: "Tabuk"},
	{ID: "8", Name: "Hail"},
	{ID: "9", Name: "Northern Borders"},
	{ID: "10", Name: "Jazan"},
	{ID: "11", Name: "Najran"},
	{ID: "12", Name: "Al Bahah"},
	{ID: "13", Name: "Al Jawf"},
}

// RegionSource yields the region list for a run: Arabic names parsed from
// the embedded portal markup, English ones from the fixed table.
type RegionSource struct {
	htmlPath string
	logger   *slog.Logger
}

// NewRegionSource creates a source. A non-empty htmlPath overrides the
// embedded markup, for when the portal revises its region list.
func NewRegionSource(htmlPath string, logger *slog.Logger) *RegionSource {
	return &RegionSource{htmlPath: htmlPath, logger: logger}
}

// Regions returns the regions with names in lang, in markup order.
func (s *RegionSource) Regions(lang domain.Language) ([]domain.Region, error) {
	if lang == domain.English {
		return append([]domain.Region(nil), englishRegions...), nil
	}
	return s.arabicRegions()
}

func (s *RegionSource) arabicRegions() ([]domain.Region, error) {
	markup := regionsHTML
	if s.htmlPath != "" {
		data, err := os.ReadFile(s.htmlPath)
		if err != nil {
			return nil, fmt.Errorf("read regions markup: %w", err)
		}
		markup = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse regions markup: %w: %w", domain.ErrParse, err)
	}

	var regions []domain.Region
	doc.Find("option").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if _, err := strconv.Atoi(id); err != nil {
			s.logger.Warn("region option without numeric id, skipping", "id", id)
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			s.logger.Warn("region option without name, skipping", "id", id)
			return
		}
		regions = append(regions, domain.Region{ID: id, Name: name})
	})

	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions in markup: %w", domain.ErrParse)
	}
	return regions, nil
}
