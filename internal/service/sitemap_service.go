package service

import (
	"context"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"go.uber.org/zap"
)

var (
	sitemapService     *SitemapService
	sitemapServiceOnce sync.Once
)

// SitemapService 站点地图服务
type SitemapService struct {
	generator  *staticgen.SitemapGenerator
	settings   SiteSource
	publicPath string
	logger     *zap.SugaredLogger
}

// NewSitemapService 创建站点地图服务实例
func NewSitemapService() *SitemapService {
	sitemapServiceOnce.Do(func() {
		e := GetEngine()
		sitemapService = newSitemapService(e.Sitemap, NewSettingService(), e.PublicPath, logger.GetSugaredLogger())
	})
	return sitemapService
}

func newSitemapService(generator *staticgen.SitemapGenerator, settings SiteSource, publicPath string, log *zap.SugaredLogger) *SitemapService {
	return &SitemapService{generator: generator, settings: settings, publicPath: publicPath, logger: log}
}

// Generate 生成站点地图，format 为 txt、xml、html 或 all；domain 为访问域名，站点地址未配置时使用
func (s *SitemapService) Generate(ctx context.Context, format, domain string) ([]staticgen.SitemapResult, error) {
	site, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	baseURL := site.BaseURL(domain, s.publicPath)

	if format == "" || format == "all" {
		results, err := s.generator.GenerateAll(ctx, site, baseURL)
		if err != nil {
			return nil, err
		}
		s.logger.Infow("站点地图生成完成", "formats", len(results), "base_url", baseURL)
		return results, nil
	}

	f, err := staticgen.ParseSitemapFormat(format)
	if err != nil {
		return nil, err
	}
	res, err := s.generator.Generate(ctx, site, baseURL, f)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("站点地图生成完成", "format", f, "count", res.Count, "base_url", baseURL)
	return []staticgen.SitemapResult{*res}, nil
}
