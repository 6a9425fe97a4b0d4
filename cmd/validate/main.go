// Command validate cross-checks the two outputs of a scrape run: the JSON
// snapshot and the Excel workbook. It verifies the snapshot's internal
// hierarchy (ids, names, parent linkage) and that the workbook holds
// exactly the region, city, and district rows the snapshot implies.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -snapshot region_cities_districts.json \
//	  -workbook region_cities_districts.xlsx
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/splgeo/spl-areas/internal/adapter/export"
	"github.com/splgeo/spl-areas/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "region_cities_districts.json", "path to the JSON snapshot")
	workbookPath := flag.String("workbook", "region_cities_districts.xlsx", "path to the Excel workbook")
	flag.Parse()

	os.Exit(run(*snapshotPath, *workbookPath))
}

func run(snapshotPath, workbookPath string) int {
	fmt.Println("=== SPL Areas Output Validation ===")
	fmt.Println()

	snap, err := export.LoadSnapshot(snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}

	rows, err := export.ReadWorkbook(workbookPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load workbook: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSnapshotIntegrity(snap),
		validateWorkbookCounts(snap, rows),
		validateWorkbookParity(snap, rows),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	fmt.Println()
	regions, cities, districts := countLevels(snap)
	fmt.Printf("Snapshot: %d regions, %d cities, %d districts (language %s, scraped %s)\n",
		regions, cities, districts, snap.Language, snap.ScrapedAt.Format(time.RFC3339))
	fmt.Printf("Workbook: %d rows\n", len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Snapshot Integrity ──
// Structural checks on the snapshot itself: parent linkage, duplicate ids,
// empty names, header fields.

func validateSnapshotIntegrity(snap *domain.Snapshot) *phase {
	p := &phase{name: "Phase 1: Snapshot Integrity"}
	for _, problem := range domain.ValidateSnapshot(snap) {
		p.errorf("%s", problem)
	}
	return p
}

// ── Phase 2: Workbook Counts ──
// Aggregate row counts per region sheet against what the snapshot implies.

func validateWorkbookCounts(snap *domain.Snapshot, rows []domain.Triple) *phase {
	p := &phase{name: "Phase 2: Workbook Counts"}

	want := expectedRows(snap)
	if len(rows) != len(want) {
		p.errorf("row count: snapshot implies %d, workbook has %d", len(want), len(rows))
	}

	var order []string
	wantPerRegion := map[string]int{}
	for _, t := range want {
		if _, seen := wantPerRegion[t.Region]; !seen {
			order = append(order, t.Region)
		}
		wantPerRegion[t.Region]++
	}
	gotPerRegion := map[string]int{}
	for _, t := range rows {
		gotPerRegion[t.Region]++
	}

	for _, region := range order {
		if got := gotPerRegion[region]; got != wantPerRegion[region] {
			p.errorf("region %q: snapshot implies %d rows, workbook has %d", region, wantPerRegion[region], got)
		}
	}
	reported := map[string]bool{}
	for _, t := range rows {
		if _, ok := wantPerRegion[t.Region]; ok || reported[t.Region] {
			continue
		}
		reported[t.Region] = true
		p.errorf("region %q: sheet present in workbook but absent from snapshot", t.Region)
	}
	return p
}

// ── Phase 3: Workbook Parity ──
// Exact row-for-row comparison, in sheet order, after mapping region names
// through the same sanitization the writer applies to sheet names.

func validateWorkbookParity(snap *domain.Snapshot, rows []domain.Triple) *phase {
	p := &phase{name: "Phase 3: Workbook Parity"}
	if diff := cmp.Diff(expectedRows(snap), rows); diff != "" {
		p.errorf("workbook rows diverge from snapshot (-snapshot +workbook):\n%s", diff)
	}
	return p
}

// ── Helpers ──

// expectedRows rebuilds the workbook rows a snapshot should produce. Region
// names pass through SheetName because that is what the writer stores.
func expectedRows(s *domain.Snapshot) []domain.Triple {
	var out []domain.Triple
	for _, t := range s.Triples() {
		out = append(out, domain.Triple{Region: export.SheetName(t.Region), City: t.City, District: t.District})
	}
	return out
}

func countLevels(s *domain.Snapshot) (regions, cities, districts int) {
	regions = len(s.Regions)
	for _, r := range s.Regions {
		cities += len(r.Cities)
		for _, c := range r.Cities {
			districts += len(c.Districts)
		}
	}
	return regions, cities, districts
}
