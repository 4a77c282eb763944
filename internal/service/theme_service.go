package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// templateCache 可清空的模板缓存
type templateCache interface {
	Invalidate()
}

var (
	themeService     *ThemeService
	themeServiceOnce sync.Once
)

// ThemeService 模板套装服务
type ThemeService struct {
	db        *gorm.DB
	root      string
	settings  *SettingService
	templates templateCache
	logger    *zap.SugaredLogger
}

// NewThemeService 创建模板套装服务实例
func NewThemeService() *ThemeService {
	themeServiceOnce.Do(func() {
		themeService = newThemeService(database.GetDB(), config.GlobalConfig.Static.TemplatesDir,
			NewSettingService(), GetEngine().Renderer, logger.GetSugaredLogger())
	})
	return themeService
}

func newThemeService(db *gorm.DB, root string, settings *SettingService, templates templateCache, log *zap.SugaredLogger) *ThemeService {
	return &ThemeService{db: db, root: root, settings: settings, templates: templates, logger: log}
}

// Scan 扫描所有模板套装并标记当前使用的套装
func (s *ThemeService) Scan(ctx context.Context) ([]staticgen.ThemeInfo, error) {
	site, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return staticgen.ScanThemes(s.root, site.Theme)
}

// Current 当前使用的模板套装
func (s *ThemeService) Current(ctx context.Context) (*staticgen.ThemeInfo, error) {
	site, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	info, err := staticgen.LoadTheme(s.root, site.Theme)
	if err != nil {
		return nil, err
	}
	info.IsCurrent = true
	return info, nil
}

// Switch 切换模板套装，重置首页模板并清除新套装中不存在的分类、单页自定义模板
func (s *ThemeService) Switch(ctx context.Context, key string) (*staticgen.ThemeInfo, error) {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("%w: 模板套装名称不合法", ErrInvalidParam)
	}
	info, err := staticgen.LoadTheme(s.root, key)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.settings.upsert(tx, map[string]string{
			SettingTheme:         key,
			SettingIndexTemplate: staticgen.DefaultIndexTemplate,
		}); err != nil {
			return err
		}
		if err := tx.Model(&model.Category{}).
			Where("template <> '' AND template NOT IN ?", keepList(info.Templates)).
			Update("template", "").Error; err != nil {
			return err
		}
		return tx.Model(&model.Page{}).
			Where("template <> '' AND template NOT IN ?", keepList(info.Templates)).
			Update("template", "").Error
	})
	if err != nil {
		return nil, fmt.Errorf("切换模板套装失败: %v", err)
	}

	s.settings.Invalidate(ctx)
	s.templates.Invalidate()
	s.logger.Infow("模板套装已切换", "theme", key)

	info.IsCurrent = true
	return info, nil
}

// keepList NOT IN 不能接收空列表
func keepList(templates []string) []string {
	if len(templates) == 0 {
		return []string{""}
	}
	return templates
}
