package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"go.uber.org/zap"
)

// SiteSource 构建配置快照来源
type SiteSource interface {
	Snapshot(ctx context.Context) (staticgen.SiteConfig, error)
}

var (
	buildService     *BuildService
	buildServiceOnce sync.Once
)

// BuildService 静态化构建服务
type BuildService struct {
	builder    *staticgen.Builder
	settings   SiteSource
	publicPath string
	logger     *zap.SugaredLogger
}

// NewBuildService 创建构建服务实例
func NewBuildService() *BuildService {
	buildServiceOnce.Do(func() {
		e := GetEngine()
		buildService = newBuildService(e.Builder, NewSettingService(), e.PublicPath, logger.GetSugaredLogger())
	})
	return buildService
}

func newBuildService(builder *staticgen.Builder, settings SiteSource, publicPath string, log *zap.SugaredLogger) *BuildService {
	return &BuildService{builder: builder, settings: settings, publicPath: publicPath, logger: log}
}

// snapshot 读取站点配置，失败时同样留下一条构建日志
func (s *BuildService) snapshot(ctx context.Context, scope staticgen.Scope, targetID uint, buildType string) (staticgen.SiteConfig, error) {
	site, err := s.settings.Snapshot(ctx)
	if err != nil {
		return site, s.builder.RecordFailure(ctx, scope, targetID, buildType, fmt.Errorf("读取站点配置失败: %w", err))
	}
	return site, nil
}

// Build 构建单个范围，批量范围请使用 BuildTags、BuildPages、BuildAll
func (s *BuildService) Build(ctx context.Context, scope staticgen.Scope, targetID uint, buildType string) (*dto.BuildResponse, error) {
	site, err := s.snapshot(ctx, scope, targetID, buildType)
	if err != nil {
		return nil, err
	}
	out, err := s.builder.Build(ctx, staticgen.Request{Scope: scope, TargetID: targetID, BuildType: buildType, Site: site})
	if err != nil {
		return nil, err
	}

	base := site.BaseURL("", s.publicPath)
	resp := &dto.BuildResponse{Scope: scope, TargetID: targetID, Files: out.Files, Pages: out.Pages}
	resp.URLs = make([]string, 0, len(out.Files))
	for _, f := range out.Files {
		resp.URLs = append(resp.URLs, staticgen.AbsoluteURL(base, f))
	}
	return resp, nil
}

// BuildIndex 生成首页
func (s *BuildService) BuildIndex(ctx context.Context, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopeIndex, 0, buildType)
}

// BuildArticleList 生成文章列表全部分页
func (s *BuildService) BuildArticleList(ctx context.Context, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopeArticleList, 0, buildType)
}

// BuildArticle 生成文章详情页
func (s *BuildService) BuildArticle(ctx context.Context, id uint, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopeArticle, id, buildType)
}

// BuildCategory 生成分类页
func (s *BuildService) BuildCategory(ctx context.Context, id uint, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopeCategory, id, buildType)
}

// BuildTag 生成标签页
func (s *BuildService) BuildTag(ctx context.Context, id uint, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopeTag, id, buildType)
}

// BuildPage 生成单页
func (s *BuildService) BuildPage(ctx context.Context, id uint, buildType string) (*dto.BuildResponse, error) {
	return s.Build(ctx, staticgen.ScopePage, id, buildType)
}

// BuildTags 生成所有启用的标签页
func (s *BuildService) BuildTags(ctx context.Context, buildType string) (*staticgen.BatchResult, error) {
	site, err := s.snapshot(ctx, staticgen.ScopeTags, 0, buildType)
	if err != nil {
		return nil, err
	}
	res := s.builder.BuildTags(ctx, site, buildType)
	s.logger.Infow("批量生成标签页完成", "built", res.Built, "failed", res.Failed, "batch_id", res.BatchID)
	return res, nil
}

// BuildPages 生成所有已发布的单页
func (s *BuildService) BuildPages(ctx context.Context, buildType string) (*staticgen.BatchResult, error) {
	site, err := s.snapshot(ctx, staticgen.ScopePages, 0, buildType)
	if err != nil {
		return nil, err
	}
	res := s.builder.BuildPages(ctx, site, buildType)
	s.logger.Infow("批量生成单页完成", "built", res.Built, "failed", res.Failed, "batch_id", res.BatchID)
	return res, nil
}

// BuildAll 生成全站
func (s *BuildService) BuildAll(ctx context.Context, buildType string) (*staticgen.AllResult, error) {
	site, err := s.snapshot(ctx, staticgen.ScopeAll, 0, buildType)
	if err != nil {
		return nil, err
	}
	res := s.builder.BuildAll(ctx, site, buildType)
	s.logger.Infow("全站生成完成",
		"articles", res.Articles, "categories", res.Categories, "tags", res.Tags,
		"pages", res.Pages, "failed", res.Failed, "batch_id", res.BatchID)
	return res, nil
}

// RebuildAfterPublish 文章发布后依次生成详情页、首页、文章列表，任一步失败即返回
func (s *BuildService) RebuildAfterPublish(ctx context.Context, articleID uint) error {
	if _, err := s.BuildArticle(ctx, articleID, model.BuildTypeAuto); err != nil {
		return err
	}
	if _, err := s.BuildIndex(ctx, model.BuildTypeAuto); err != nil {
		return err
	}
	_, err := s.BuildArticleList(ctx, model.BuildTypeAuto)
	return err
}
