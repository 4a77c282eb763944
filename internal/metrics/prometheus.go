package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cms"

// 构建结果标签
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// PrometheusRecorder 静态化构建指标
type PrometheusRecorder struct {
	once          sync.Once
	registry      *prom.Registry
	buildDuration *prom.HistogramVec
	buildResults  *prom.CounterVec
	bulkFailures  *prom.CounterVec
	sitemapURLs   *prom.GaugeVec
}

// NewPrometheusRecorder 创建并注册指标，reg 为空时使用独立的注册表
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of single static page builds",
			Buckets:   prom.DefBuckets,
		}, []string{"scope"})
		pr.buildResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_results_total",
			Help:      "Static build results by scope and outcome",
		}, []string{"scope", "result"})
		pr.bulkFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_failures_total",
			Help:      "Failed targets inside bulk builds",
		}, []string{"scope"})
		pr.sitemapURLs = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sitemap_urls",
			Help:      "URL count of the last generated sitemap",
		}, []string{"format"})
		reg.MustRegister(pr.buildDuration, pr.buildResults, pr.bulkFailures, pr.sitemapURLs)
	})
	return pr
}

// ObserveBuild 记录单次构建耗时与结果
func (p *PrometheusRecorder) ObserveBuild(scope staticgen.Scope, d time.Duration, err error) {
	if p == nil || p.buildDuration == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailed
	}
	p.buildDuration.WithLabelValues(string(scope)).Observe(d.Seconds())
	p.buildResults.WithLabelValues(string(scope), result).Inc()
}

// ObserveBatch 记录批量构建中的失败数量
func (p *PrometheusRecorder) ObserveBatch(scope staticgen.Scope, failed int) {
	if p == nil || p.bulkFailures == nil || failed <= 0 {
		return
	}
	p.bulkFailures.WithLabelValues(string(scope)).Add(float64(failed))
}

// ObserveSitemap 记录站点地图URL数量
func (p *PrometheusRecorder) ObserveSitemap(format string, urls int) {
	if p == nil || p.sitemapURLs == nil {
		return
	}
	p.sitemapURLs.WithLabelValues(format).Set(float64(urls))
}

// Registry 指标注册表
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// RegisterRuntimeCollectors 注册进程与Go运行时指标
func RegisterRuntimeCollectors(reg *prom.Registry) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// HTTPHandler 指标导出接口
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
