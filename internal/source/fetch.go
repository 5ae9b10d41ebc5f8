// Package source loads GeoJSON documents from URLs or local files.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"georeduce/internal/geom"
	"georeduce/internal/metrics"
)

// maxBody caps a fetched document.
const maxBody = 256 << 20

// Document is a decoded collection together with where it came from.
type Document struct {
	Location   string
	Collection *geojson.FeatureCollection
	Cached     bool
}

type Fetcher struct {
	Client *http.Client
	Cache  Cache
	Log    *zap.Logger
}

func NewFetcher(timeout time.Duration, cache Cache, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}, Cache: cache, Log: log}
}

// IsURL reports whether loc should be fetched over HTTP.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch loads loc. URLs go through the cache so repeating the same URL skips the
// download; local paths are always read from disk.
func (f *Fetcher) Fetch(ctx context.Context, loc string) (*Document, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return nil, errors.New("empty location")
	}
	if !IsURL(loc) {
		fc, err := geom.LoadGeo(loc)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", loc)
		}
		return &Document{Location: loc, Collection: fc}, nil
	}

	if f.Cache != nil {
		if body, ok := f.Cache.Get(ctx, loc); ok {
			fc, err := geom.Decode(body)
			if err == nil {
				metrics.CacheHitsTotal.Inc()
				f.Log.Debug("cache_hit", zap.String("url", loc))
				return &Document{Location: loc, Collection: fc, Cached: true}, nil
			}
			f.Log.Warn("cache_corrupt", zap.String("url", loc), zap.Error(err))
		}
		metrics.CacheMissesTotal.Inc()
	}

	start := time.Now()
	body, err := f.download(ctx, loc)
	metrics.FetchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.FetchErrorsTotal.Inc()
		return nil, err
	}
	fc, err := geom.Decode(body)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", loc)
	}
	if f.Cache != nil {
		f.Cache.Put(ctx, loc, body)
	}
	f.Log.Info("fetched", zap.String("url", loc), zap.Int("bytes", len(body)), zap.Int("features", len(fc.Features)))
	return &Document{Location: loc, Collection: fc}, nil
}

// FetchError is returned when the upstream answers with a non-200 status.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", url)
	}
	return body, nil
}
