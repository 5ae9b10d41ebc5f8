package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zap.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zap.WarnLevel, ParseLevel("warning"))
	require.Equal(t, zap.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zap.InfoLevel, ParseLevel(""))
	require.Equal(t, zap.InfoLevel, ParseLevel("verbose"))
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "georeduce.log")
	l, err := Setup(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	t.Cleanup(func() { Set(nil) })

	require.Same(t, l, L())
	l.Debug("hidden")
	l.Info("reduced", zap.Int("points", 12))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"reduced"`)
	require.Contains(t, string(data), `"points":12`)
	require.NotContains(t, string(data), "hidden")
}

func TestDiscard(t *testing.T) {
	l, err := New(Options{Output: "discard"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestLFallsBack(t *testing.T) {
	Set(nil)
	require.NotNil(t, L())
	Set(nil)
}

func TestAccessMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := AccessMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reduce?points=5", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "http_access", entry.Message)
	fields := entry.ContextMap()
	require.Equal(t, "/reduce", fields["path"])
	require.EqualValues(t, http.StatusTeapot, fields["status"])
	require.EqualValues(t, 15, fields["bytes"])
}
