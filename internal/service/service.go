// Package service runs one reduction end to end: load, reduce, record.
package service

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"georeduce/internal/metrics"
	"georeduce/internal/reduce"
	"georeduce/internal/source"
)

type Service struct {
	fetcher *source.Fetcher
	log     *zap.Logger
}

func New(fetcher *source.Fetcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{fetcher: fetcher, log: log}
}

type Result struct {
	Source    *source.Document
	Reduced   *geojson.FeatureCollection
	Config    reduce.Config
	PointsIn  int
	PointsOut int
	Duration  time.Duration
}

// Ratio is the share of first-ring points that survived.
func (r *Result) Ratio() float64 {
	if r.PointsIn == 0 {
		return 1
	}
	return float64(r.PointsOut) / float64(r.PointsIn)
}

// Load fetches a document without reducing it.
func (s *Service) Load(ctx context.Context, loc string) (*source.Document, error) {
	if s.fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	return s.fetcher.Fetch(ctx, loc)
}

// Reduce loads loc and reduces it.
func (s *Service) Reduce(ctx context.Context, loc string, cfg reduce.Config) (*Result, error) {
	doc, err := s.Load(ctx, loc)
	if err != nil {
		return nil, err
	}
	res, err := s.ReduceDocument(doc, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "reduce %s", loc)
	}
	return res, nil
}

// ReduceDocument reduces an already loaded document.
func (s *Service) ReduceDocument(doc *source.Document, cfg reduce.Config) (*Result, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	start := time.Now()
	out, err := reduce.Collection(doc.Collection, cfg)
	if err != nil {
		metrics.ReductionErrorsTotal.Inc()
		s.log.Warn("reduce_rejected", zap.String("location", doc.Location), zap.Error(err))
		return nil, err
	}
	res := &Result{
		Source:    doc,
		Reduced:   out,
		Config:    cfg,
		PointsIn:  reduce.CountPoints(doc.Collection.Features),
		PointsOut: reduce.CountPoints(out.Features),
		Duration:  time.Since(start),
	}
	metrics.ReductionsTotal.WithLabelValues(cfg.Strategy.String()).Inc()
	metrics.PointsInTotal.Add(float64(res.PointsIn))
	metrics.PointsOutTotal.Add(float64(res.PointsOut))
	metrics.ReduceDurationMs.Observe(float64(res.Duration.Milliseconds()))
	s.log.Info("reduced",
		zap.String("location", doc.Location),
		zap.Stringer("strategy", cfg.Strategy),
		zap.Int("reduce", cfg.Reduce),
		zap.Int("precision", cfg.Precision),
		zap.Int("features", len(out.Features)),
		zap.Int("points_in", res.PointsIn),
		zap.Int("points_out", res.PointsOut),
		zap.Bool("cached", doc.Cached),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}
