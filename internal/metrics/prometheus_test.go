package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsResults(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveBuild(staticgen.ScopeArticle, 10*time.Millisecond, nil)
	r.ObserveBuild(staticgen.ScopeArticle, 20*time.Millisecond, errors.New("boom"))
	r.ObserveBuild(staticgen.ScopeArticle, 5*time.Millisecond, nil)
	r.ObserveBatch(staticgen.ScopeTags, 2)
	r.ObserveBatch(staticgen.ScopeTags, 0)
	r.ObserveSitemap("xml", 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.buildResults.WithLabelValues("article", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.buildResults.WithLabelValues("article", ResultFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.bulkFailures.WithLabelValues("tags")))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.sitemapURLs.WithLabelValues("xml")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	assert.NotPanics(t, func() {
		r.ObserveBuild(staticgen.ScopeIndex, time.Second, nil)
		r.ObserveBatch(staticgen.ScopeAll, 1)
		r.ObserveSitemap("txt", 1)
	})
}

func TestHTTPHandlerExposesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)
	r.ObserveBuild(staticgen.ScopeIndex, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cms_build_results_total{result="success",scope="index"} 1`)
}
