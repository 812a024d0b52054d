// Command ctdsplit splits a whole-cruise CTD NetCDF file into one NetCDF
// file per station, rewriting cruise-wide global attributes into per-station
// metadata.
//
// Usage:
//
//	ctdsplit <cruise-file.nc>
//
// Configuration comes from the environment: OUT_DIR (default "."),
// STATION_VAR (default "STATION"), FILE_PREFIX, METRICS_ADDR, LOG_LEVEL,
// LOG_FORMAT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oceanobs/ctd-split/internal/adapter/netcdf"
	"github.com/oceanobs/ctd-split/internal/config"
	"github.com/oceanobs/ctd-split/internal/observability"
	"github.com/oceanobs/ctd-split/internal/pipeline"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <cruise-file.nc>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader := netcdf.NewReader(flag.Arg(0), logger)
	writer := netcdf.NewWriter(cfg.OutDir, cfg.FilePrefix, logger)
	transformer := pipeline.NewTransformer(cfg.FilePrefix, logger)

	p := pipeline.New(reader, transformer, writer, cfg.StationVar, logger, metrics)

	var srv *observability.Server
	if cfg.MetricsAddr != "" {
		srv = observability.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := p.Run(ctx)

	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := srv.Shutdown(sctx); serr != nil {
			logger.Warn("metrics server shutdown", "error", serr)
		}
		cancel()
	}

	if err != nil {
		logger.Error("split failed", "error", err)
		os.Exit(1)
	}
	logger.Info("split complete", "stations", sum.Stations, "profiles", sum.Profiles)
}
