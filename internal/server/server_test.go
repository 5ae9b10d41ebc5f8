package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"georeduce/internal/config"
	"georeduce/internal/geom"
	"georeduce/internal/service"
	"georeduce/internal/source"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ac.json" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, "../geom/testdata/municipalities.geojson")
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Load()
	svc := service.New(source.NewFetcher(time.Second, source.NewMemory(), nil), nil)
	return New(svc, cfg, nil), upstream
}

func TestReduceGet(t *testing.T) {
	s, upstream := newTestServer(t)
	q := url.Values{
		"url":       {upstream.URL + "/ac.json"},
		"points":    {"5"},
		"precision": {"3"},
		"strategy":  {"skip"},
	}
	req := httptest.NewRequest(http.MethodGet, "/reduce?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	require.Equal(t, "skip", rec.Header().Get("X-Strategy"))
	require.Equal(t, "101", rec.Header().Get("X-Points-In"))
	require.Empty(t, rec.Header().Get("Content-Disposition"))

	fc, err := geom.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	poly := fc.Features[0].Geometry.(orb.Polygon)
	// 61 points with a factor of 5: only the first ring is reduced
	require.Len(t, poly[0], 12)
	require.Len(t, poly, 2)

	// second request is served from the cache
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reduce?"+q.Encode(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hit", rec.Header().Get("X-Cache"))
}

func TestReduceDownload(t *testing.T) {
	s, upstream := newTestServer(t)
	q := url.Values{"url": {upstream.URL + "/ac.json"}, "download": {"1"}}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reduce?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="custom-geojson.json"`, rec.Header().Get("Content-Disposition"))
}

func TestReducePost(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reduce?precision=2", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "5", rec.Header().Get("X-Points-Out"))

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reduce", strings.NewReader("POLYGON((0 0, 4 0, 4 3, 0 0))")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "4", rec.Header().Get("X-Points-In"))
}

func TestReduceErrors(t *testing.T) {
	s, upstream := newTestServer(t)
	testCases := []struct {
		name   string
		method string
		target string
		body   string
		code   int
	}{
		{"local path", http.MethodGet, "/reduce?url=/etc/passwd", "", http.StatusBadRequest},
		{"missing url", http.MethodGet, "/reduce", "", http.StatusBadRequest},
		{"bad points", http.MethodGet, "/reduce?points=ten&url=" + url.QueryEscape(upstream.URL+"/ac.json"), "", http.StatusBadRequest},
		{"bad tolerance", http.MethodGet, "/reduce?tolerance=x&url=" + url.QueryEscape(upstream.URL+"/ac.json"), "", http.StatusBadRequest},
		{"upstream 404", http.MethodGet, "/reduce?url=" + url.QueryEscape(upstream.URL+"/missing.json"), "", http.StatusBadGateway},
		{"point geometry", http.MethodPost, "/reduce", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"garbage body", http.MethodPost, "/reduce", `nope`, http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/reduce", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Routes().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestStrictStrategy(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reduce?strategy=median", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mode", rec.Header().Get("X-Strategy"))

	s.cfg.StrictStrategy = true
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reduce?strategy=median", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "georeduce_http_requests_total")
}
