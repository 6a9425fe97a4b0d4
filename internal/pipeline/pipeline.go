package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

// RegionSource yields the region list for the run's language.
type RegionSource interface {
	Regions(lang domain.Language) ([]domain.Region, error)
}

// Fetcher pulls cities and districts from the portal.
type Fetcher interface {
	FetchCities(ctx context.Context, lang domain.Language) ([]domain.City, error)
	FetchDistricts(ctx context.Context, cityID string, lang domain.Language) ([]domain.District, error)
}

// Exporter persists a finished snapshot to one output target.
type Exporter interface {
	Export(ctx context.Context, snap *domain.Snapshot) error
}

// Pipeline orchestrates one scrape: regions, cities, district fan-out,
// assembly, exports. It runs once and returns.
type Pipeline struct {
	regions     RegionSource
	fetcher     Fetcher
	exporters   []Exporter
	lang        domain.Language
	source      string
	concurrency int
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability. source is
// recorded in the snapshot header; concurrency bounds the district fan-out.
func New(regions RegionSource, fetcher Fetcher, exporters []Exporter, lang domain.Language, source string, concurrency int, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		regions:     regions,
		fetcher:     fetcher,
		exporters:   exporters,
		lang:        lang,
		source:      source,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the scrape has gotten a first answer out
// of the portal, or an error describing why it is not there yet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("scrape has not reached the portal yet")
	}
	return nil
}

// Run executes one scrape end to end. Exports only happen after every fetch
// has succeeded, so a failing run leaves existing output files untouched.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("scrape started", "language", p.lang, "concurrency", p.concurrency)
	p.metrics.ScrapeRunning.Set(1)
	defer p.metrics.ScrapeRunning.Set(0)

	regions, err := p.regions.Regions(p.lang)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}
	p.logger.Info("regions loaded", "count", len(regions))

	cities, err := p.fetcher.FetchCities(ctx, p.lang)
	if err != nil {
		return fmt.Errorf("fetch cities: %w", err)
	}
	p.ready.Store(true)

	districtsByCity, err := p.fetchDistricts(ctx, cities)
	if err != nil {
		return err
	}

	snap, stats := domain.BuildSnapshot(p.lang, p.source, regions, cities, districtsByCity, p.logger)
	p.metrics.RecordsScraped.WithLabelValues("region").Add(float64(stats.Regions))
	p.metrics.RecordsScraped.WithLabelValues("city").Add(float64(stats.Cities))
	p.metrics.RecordsScraped.WithLabelValues("district").Add(float64(stats.Districts))
	p.metrics.CitiesSkipped.Add(float64(stats.CitiesSkipped))

	for _, exporter := range p.exporters {
		if err := exporter.Export(ctx, snap); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	p.metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("scrape finished",
		"regions", stats.Regions,
		"cities", stats.Cities,
		"districts", stats.Districts,
		"cities_skipped", stats.CitiesSkipped,
		"duration", time.Since(start),
	)
	return nil
}

type districtResult struct {
	cityID    string
	districts []domain.District
	err       error
}

// fetchDistricts fans district requests out over a bounded worker pool and
// regroups the results by city. The first failure cancels the remaining work
// and fails the whole run.
func (p *Pipeline) fetchDistricts(ctx context.Context, cities []domain.City) (map[string][]domain.District, error) {
	byCity := make(map[string][]domain.District, len(cities))
	if len(cities) == 0 {
		return byCity, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.concurrency
	if workers > len(cities) {
		workers = len(cities)
	}

	jobs := make(chan domain.City, len(cities))
	results := make(chan districtResult, len(cities))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for city := range jobs {
				if ctx.Err() != nil {
					results <- districtResult{cityID: city.ID, err: ctx.Err()}
					continue
				}
				districts, err := p.fetcher.FetchDistricts(ctx, city.ID, p.lang)
				results <- districtResult{cityID: city.ID, districts: districts, err: err}
			}
		}()
	}

	for _, city := range cities {
		jobs <- city
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch districts for city %s: %w", res.cityID, res.err)
				cancel()
			}
			continue
		}
		byCity[res.cityID] = res.districts
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return byCity, nil
}
