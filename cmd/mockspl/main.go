// Command mockspl runs a local stand-in for the SPL address portal, serving
// the fixtures embedded in internal/mockspl. Handy for developing against a
// stable dataset without hammering the real site.
//
// Usage:
//
//	go run ./cmd/mockspl -addr :8931
//	SPL_BASE_URL=http://localhost:8931 go run ./cmd/splareas
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splgeo/spl-areas/internal/mockspl"
)

func main() {
	addr := flag.String("addr", ":8931", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := &http.Server{
		Addr:         *addr,
		Handler:      mockspl.Handler(logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock portal listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mock portal error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
