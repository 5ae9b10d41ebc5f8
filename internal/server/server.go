// Package server exposes reductions over HTTP. The url / points / precision form
// fields come in as query parameters and the reduced document goes back as GeoJSON,
// optionally as a file download.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"georeduce/internal/config"
	"georeduce/internal/export"
	"georeduce/internal/geom"
	"georeduce/internal/logger"
	"georeduce/internal/metrics"
	"georeduce/internal/reduce"
	"georeduce/internal/service"
	"georeduce/internal/source"
)

const maxUpload = 64 << 20

type Server struct {
	svc *service.Service
	cfg *config.Config
	log *zap.Logger
}

func New(svc *service.Service, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, cfg: cfg, log: log}
}

// Routes builds the handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/reduce", s.handleReduce)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, http.StatusOK, "text/plain; charset=utf-8", []byte("ok\n"))
	})
	mux.Handle("/metrics", metrics.Handler())
	return logger.AccessMiddleware(s.log)(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		s.log.Info("http_listen", zap.String("addr", addr))
		errChan <- srv.ListenAndServe()
	}()
	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		s.log.Info("http_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		s.fail(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	q := r.URL.Query()
	cfg, err := s.params(q)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	var doc *source.Document
	switch r.Method {
	case http.MethodGet:
		loc := strings.TrimSpace(q.Get("url"))
		if !source.IsURL(loc) {
			s.fail(w, http.StatusBadRequest, errors.New("url: an http or https URL is required"))
			return
		}
		doc, err = s.svc.Load(r.Context(), loc)
		if err != nil {
			s.fail(w, http.StatusBadGateway, err)
			return
		}
	default:
		doc, err = readBody(r)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}

	res, err := s.svc.ReduceDocument(doc, cfg)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	data, err := geom.Encode(res.Reduced)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	h := w.Header()
	h.Set("X-Points-In", strconv.Itoa(res.PointsIn))
	h.Set("X-Points-Out", strconv.Itoa(res.PointsOut))
	h.Set("X-Strategy", cfg.Strategy.String())
	if doc.Cached {
		h.Set("X-Cache", "hit")
	}
	if download, _ := strconv.ParseBool(q.Get("download")); download {
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.cfg.ExportName)))
	}
	s.write(w, http.StatusOK, "application/geo+json", data)
}

// params parses the raw form values; missing ones fall back to the configured defaults.
// "points" is the form field name for the reduction factor, "reduce" is accepted too.
func (s *Server) params(q url.Values) (reduce.Config, error) {
	c := *s.cfg
	var err error
	if c.Reduce, err = intParam(q, c.Reduce, "points", "reduce"); err != nil {
		return reduce.Config{}, err
	}
	if c.Precision, err = intParam(q, c.Precision, "precision"); err != nil {
		return reduce.Config{}, err
	}
	if v := q.Get("tolerance"); v != "" {
		if c.Tolerance, err = strconv.ParseFloat(v, 64); err != nil {
			return reduce.Config{}, fmt.Errorf("tolerance: invalid number %q", v)
		}
	}
	if v := q.Get("strategy"); v != "" {
		c.Strategy = v
	}
	if err := c.Validate(); err != nil {
		return reduce.Config{}, err
	}
	return c.ReductionConfig()
}

func intParam(q url.Values, fallback int, names ...string) (int, error) {
	for _, name := range names {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", name, v)
		}
		return n, nil
	}
	return fallback, nil
}

func readBody(r *http.Request) (*source.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if geom.IsWKT(string(body)) {
		fc, err := geom.ParseWKT(string(body))
		if err != nil {
			return nil, err
		}
		return &source.Document{Location: "request", Collection: fc}, nil
	}
	fc, err := geom.Decode(body)
	if err != nil {
		return nil, err
	}
	return &source.Document{Location: "request", Collection: fc}, nil
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.Error("request_failed", zap.Int("status", code), zap.Error(err))
	} else {
		s.log.Debug("request_rejected", zap.Int("status", code), zap.Error(err))
	}
	s.write(w, code, "text/plain; charset=utf-8", []byte(err.Error()+"\n"))
}

func (s *Server) write(w http.ResponseWriter, code int, contentType string, body []byte) {
	metrics.HTTPRequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
