package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oceanobs/ctd-split/internal/domain"
	"github.com/oceanobs/ctd-split/internal/observability"
)

// CruiseExtractor loads the whole-cruise dataset.
type CruiseExtractor interface {
	Extract(ctx context.Context) (*domain.Dataset, error)
}

// Transformer rewrites a station slice's metadata in place.
type Transformer interface {
	Transform(ctx context.Context, st *domain.Station) error
}

// StationLoader writes one station slice and returns the written path.
type StationLoader interface {
	Load(ctx context.Context, cruiseID string, st domain.Station) (string, error)
}

// Summary reports one completed split run.
type Summary struct {
	Profiles int
	Stations int
	Paths    []string
}

// Pipeline orchestrates the extract-split-transform-load sequence.
type Pipeline struct {
	extractor   CruiseExtractor
	transformer Transformer
	loader      StationLoader
	stationVar  string
	logger      *slog.Logger
	metrics     *observability.Metrics

	stationsDone atomic.Int64
	profilesDone atomic.Int64
}

// New creates a Pipeline with the given stages and observability.
// stationVar names the station-identifier variable used for boundary
// detection.
func New(e CruiseExtractor, t Transformer, l StationLoader, stationVar string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		stationVar:  stationVar,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run executes one split. Stations are processed sequentially; any failure
// is fatal and propagates with the partial summary of what was written
// before it. Context cancellation stops the run between stations.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	cruise, err := p.extractor.Extract(ctx)
	if err != nil {
		return sum, fmt.Errorf("extract cruise: %w", err)
	}

	stations, err := domain.SplitStations(cruise, p.stationVar)
	if err != nil {
		p.metrics.SplitErrors.Inc()
		return sum, fmt.Errorf("split stations: %w", err)
	}
	cruiseID := cruise.Attrs.GetString("id")
	p.logger.Info("stations detected", "cruise", cruiseID, "stations", len(stations))

	for _, st := range stations {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		if err := p.transformer.Transform(ctx, &st); err != nil {
			return sum, fmt.Errorf("station %s: %w", st.ID, err)
		}

		writeStart := time.Now()
		path, err := p.loader.Load(ctx, cruiseID, st)
		if err != nil {
			return sum, fmt.Errorf("station %s: %w", st.ID, err)
		}
		p.metrics.StationWriteDuration.Observe(time.Since(writeStart).Seconds())
		p.metrics.ProfilesRead.Add(float64(st.Profiles))
		p.metrics.StationsWritten.Inc()

		sum.Profiles += st.Profiles
		sum.Stations++
		sum.Paths = append(sum.Paths, path)
		p.stationsDone.Add(1)
		p.profilesDone.Add(int64(st.Profiles))
		p.logger.Info("station written", "station", st.ID, "profiles", st.Profiles, "path", path)
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	return sum, nil
}

// Progress reports how many stations and profiles have been written so far.
// It is safe to call concurrently with Run; the status endpoint uses it.
func (p *Pipeline) Progress() (stations, profiles int) {
	return int(p.stationsDone.Load()), int(p.profilesDone.Load())
}
