package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"georeduce/internal/config"
	"georeduce/internal/logger"
	"georeduce/internal/service"
	"georeduce/internal/source"
)

var (
	precision int
	reduceN   int
	strategy  string
	tolerance float64
	strict    bool
)

var rootCmd = &cobra.Command{
	Use:   "georeduce",
	Short: "Reduce the vertex count of GeoJSON polygons",
	Long: `georeduce shrinks GeoJSON polygon outlines by collapsing runs of vertices and rounding
coordinates to a number of significant digits.

Documents can be reduced once from the command line, served over HTTP, or previewed in
the terminal while tuning the strategy and its parameters.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.IntVar(&precision, "precision", 5, "significant digits kept per coordinate")
	f.IntVar(&reduceN, "reduce", 10, "window size / skip factor")
	f.StringVar(&strategy, "strategy", "mode", "reduction strategy: skip, distance, mean, avg, mode")
	f.Float64Var(&tolerance, "tolerance", 0, "distance threshold, defaults to --reduce when zero")
	f.BoolVar(&strict, "strict", false, "reject unknown strategy names instead of falling back to mode")

	rootCmd.AddCommand(reduceCmd, serveCmd, viewCmd)
}

type app struct {
	cfg *config.Config
	log *zap.Logger
	svc *service.Service
}

// setup loads configuration, applies flag overrides and wires the service. logOutput
// replaces LOG_FILE when non-empty.
func setup(cmd *cobra.Command, logOutput string) (*app, error) {
	config.LoadDotEnv()
	cfg := config.Load()

	flags := cmd.Flags()
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("reduce") {
		cfg.Reduce = reduceN
	}
	if flags.Changed("strategy") {
		cfg.Strategy = strategy
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("strict") {
		cfg.StrictStrategy = strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := cfg.LogFile
	if logOutput != "" && out == "" {
		out = logOutput
	}
	log, err := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})
	if err != nil {
		return nil, errors.Wrap(err, "logger")
	}

	cache, err := openCache(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	fetcher := source.NewFetcher(cfg.FetchTimeout, cache, log)
	return &app{cfg: cfg, log: log, svc: service.New(fetcher, log)}, nil
}

func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (source.Cache, error) {
	switch cfg.Cache {
	case config.CacheRedis:
		client := source.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis_unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			log.Info("redis_connected", zap.String("addr", cfg.RedisAddr))
		}
		return source.NewRedis(client, cfg.RedisKeyNS, cfg.CacheTTL, log), nil
	case config.CacheMemory:
		return source.NewMemory(), nil
	}
	return nil, errors.Errorf("unknown cache backend %q", cfg.Cache)
}
