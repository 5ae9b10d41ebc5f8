package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(ReductionsTotal.WithLabelValues("skip"))
	ReductionsTotal.WithLabelValues("skip").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(ReductionsTotal.WithLabelValues("skip")))

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `georeduce_reductions_total{strategy="skip"}`)
	require.Contains(t, string(body), "georeduce_cache_hits_total")
}
