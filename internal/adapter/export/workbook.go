package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

// defaultSheet is the sheet excelize seeds a new workbook with. It gets
// dropped once at least one region sheet exists; a workbook cannot have zero
// sheets.
const defaultSheet = "Sheet1"

// WorkbookWriter renders the snapshot as an Excel workbook: one sheet per
// region that has cities, city names bold in column A, the city's districts
// across the remaining columns of its row. Column widths grow with content
// so the Arabic names stay readable without manual resizing.
type WorkbookWriter struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewWorkbookWriter(path string, logger *slog.Logger, metrics *observability.Metrics) *WorkbookWriter {
	return &WorkbookWriter{path: path, logger: logger, metrics: metrics}
}

// Export writes the workbook. Rows keep snapshot order, which already has
// cities sorted by district count.
func (w *WorkbookWriter) Export(_ context.Context, snap *domain.Snapshot) error {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	cityStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return fmt.Errorf("create city style: %w: %w", domain.ErrExport, err)
	}

	sheets := 0
	for _, region := range snap.Regions {
		if len(region.Cities) == 0 {
			continue
		}
		sheet := SheetName(region.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w: %w", sheet, domain.ErrExport, err)
		}
		if err := writeRegion(f, sheet, region, cityStyle); err != nil {
			return err
		}
		sheets++
	}

	if sheets > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w: %w", domain.ErrExport, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create workbook dir: %w: %w", domain.ErrExport, err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w: %w", domain.ErrExport, err)
	}

	w.metrics.ExportDuration.WithLabelValues("workbook").Observe(time.Since(start).Seconds())
	w.logger.Info("workbook written", "path", w.path, "sheets", sheets)
	return nil
}

func writeRegion(f *excelize.File, sheet string, region domain.Region, cityStyle int) error {
	cityWidth := 1.2
	districtWidths := make(map[int]float64)

	for i, city := range region.Cities {
		row := i + 1
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w: %w", row, domain.ErrExport, err)
		}
		if err := f.SetCellValue(sheet, cell, city.Name); err != nil {
			return fmt.Errorf("write city %s: %w: %w", city.ID, domain.ErrExport, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, cityStyle); err != nil {
			return fmt.Errorf("style city %s: %w: %w", city.ID, domain.ErrExport, err)
		}
		if width := float64(len([]rune(city.Name))) * 1.2; width > cityWidth {
			cityWidth = width
		}

		for j, district := range city.Districts {
			col := j + 2
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return fmt.Errorf("cell for column %d: %w: %w", col, domain.ErrExport, err)
			}
			if err := f.SetCellValue(sheet, cell, district.Name); err != nil {
				return fmt.Errorf("write district %s: %w: %w", district.ID, domain.ErrExport, err)
			}
			if width := float64(len([]rune(district.Name))); width > districtWidths[col] {
				districtWidths[col] = width
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", cityWidth); err != nil {
		return fmt.Errorf("size city column: %w: %w", domain.ErrExport, err)
	}
	for col, width := range districtWidths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("name column %d: %w: %w", col, domain.ErrExport, err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("size column %s: %w: %w", name, domain.ErrExport, err)
		}
	}
	return nil
}

// sheetNameReplacer blanks the characters Excel forbids in sheet names.
var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ",
)

// SheetName maps a region name onto a legal Excel sheet name: forbidden
// characters become spaces, the result is cut at Excel's 31-character limit.
// Region names in both languages pass through unchanged in practice; the
// workbook reader relies on that when matching sheets back to regions.
func SheetName(region string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(region))
	if runes := []rune(name); len(runes) > 31 {
		name = strings.TrimSpace(string(runes[:31]))
	}
	if name == "" {
		return "Region"
	}
	return name
}

// ReadWorkbook reparses an exported workbook back into name triples, sheet
// by sheet in row order. The workbook carries no identifiers, so this is the
// name-level view used for export parity checks.
func ReadWorkbook(path string) ([]domain.Triple, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var triples []domain.Triple
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if len(row) == 0 || row[0] == "" {
				continue
			}
			city := row[0]
			districts := 0
			for _, cell := range row[1:] {
				if cell == "" {
					continue
				}
				triples = append(triples, domain.Triple{Region: sheet, City: city, District: cell})
				districts++
			}
			if districts == 0 {
				triples = append(triples, domain.Triple{Region: sheet, City: city})
			}
		}
	}
	return triples, nil
}
