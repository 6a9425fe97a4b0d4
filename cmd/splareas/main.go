// Command splareas scrapes the SPL address portal: every region, the
// cities inside each region, and the districts inside each city. The tree
// lands on disk twice, as a JSON snapshot and as an Excel workbook with
// one sheet per region.
//
// Usage:
//
//	splareas       # Arabic names
//	splareas en    # English names
//
// Portal address, output paths, and tuning come from the environment; see
// internal/config for the variables and their defaults.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/splgeo/spl-areas/internal/adapter/export"
	httpadapter "github.com/splgeo/spl-areas/internal/adapter/http"
	"github.com/splgeo/spl-areas/internal/adapter/spl"
	"github.com/splgeo/spl-areas/internal/config"
	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
	"github.com/splgeo/spl-areas/internal/pipeline"
)

const usage = `Usage: splareas [en]

Scrapes regions, cities, and districts from the SPL address portal into a
JSON snapshot and an Excel workbook. Names are Arabic unless "en" is given.
Configuration is read from the environment (SPL_BASE_URL, SNAPSHOT_PATH,
WORKBOOK_PATH, FETCH_CONCURRENCY, METRICS_ADDR, ...).
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Print(usage)
		return 0
	}
	if len(args) > 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	var langArg string
	if len(args) == 1 {
		langArg = args[0]
	}
	lang, err := domain.ParseLanguage(langArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "splareas: %v\n", err)
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regions := spl.NewRegionSource(cfg.RegionsHTMLPath, logger)
	client := spl.NewClient(cfg.BaseURL, cfg.HTTPTimeout, logger, metrics)
	exporters := []pipeline.Exporter{
		export.NewSnapshotWriter(cfg.SnapshotPath, logger, metrics),
		export.NewWorkbookWriter(cfg.WorkbookPath, logger, metrics),
	}

	p := pipeline.New(regions, client, exporters, lang, cfg.BaseURL, cfg.FetchConcurrency, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The metrics listener is opt-in; a bare scrape needs no ports.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	logger.Info("scrape starting", "language", lang, "portal", cfg.BaseURL)
	runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("scrape failed", "error", runErr)
		return 1
	}
	return 0
}
