package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/nsxzhou1114/cms-api/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 配置项键名
const (
	SettingSiteName       = "site_name"
	SettingSiteURL        = "site_url"
	SettingIndexTemplate  = "index_template"
	SettingTheme          = "current_template_theme"
	SettingRecycleBin     = "recycle_bin_enable"
	SettingSubCategory    = "article_sub_category"
	settingSnapshotFlight = "snapshot"
)

var (
	settingService     *SettingService
	settingServiceOnce sync.Once
)

// SettingService 系统配置服务
type SettingService struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.SugaredLogger
	group  singleflight.Group
}

// NewSettingService 创建配置服务实例
func NewSettingService() *SettingService {
	settingServiceOnce.Do(func() {
		settingService = newSettingService(database.GetDB(), cache.GetManager().GetCache(), logger.GetSugaredLogger())
	})
	return settingService
}

func newSettingService(db *gorm.DB, c cache.Cache, log *zap.SugaredLogger) *SettingService {
	return &SettingService{db: db, cache: c, logger: log}
}

// Snapshot 构建用的配置快照，优先读缓存，并发加载合并为一次查询
func (s *SettingService) Snapshot(ctx context.Context) (staticgen.SiteConfig, error) {
	if s.cache != nil {
		var site staticgen.SiteConfig
		err := s.cache.GetJSON(ctx, cache.SettingsSnapshotKey, &site)
		if err == nil {
			return site, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warnf("读取配置缓存失败: %v", err)
		}
	}

	v, err, _ := s.group.Do(settingSnapshotFlight, func() (any, error) {
		values, err := s.All(ctx)
		if err != nil {
			return nil, err
		}
		site := snapshotFrom(values)
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, cache.SettingsSnapshotKey, site, cache.SettingsExpiration); err != nil {
				s.logger.Warnf("写入配置缓存失败: %v", err)
			}
		}
		return site, nil
	})
	if err != nil {
		return staticgen.SiteConfig{}, err
	}
	return v.(staticgen.SiteConfig), nil
}

// snapshotFrom 由配置表生成快照，缺失的键使用默认值
func snapshotFrom(values map[string]string) staticgen.SiteConfig {
	site := staticgen.SiteConfig{
		SiteName:           values[SettingSiteName],
		SiteLogo:           values["site_logo"],
		SiteFavicon:        values["site_favicon"],
		SiteURL:            values[SettingSiteURL],
		Copyright:          values["site_copyright"],
		ICP:                values["site_icp"],
		PoliceRecord:       values["site_police"],
		SeoTitle:           values["seo_title"],
		SeoKeywords:        values["seo_keywords"],
		SeoDescription:     values["seo_description"],
		ThirdPartyCode:     values["thirdparty_code_pc"],
		IndexTemplate:      values[SettingIndexTemplate],
		Theme:              values[SettingTheme],
		RecycleBinEnabled:  values[SettingRecycleBin] == model.SwitchOpen,
		SubCategoryEnabled: values[SettingSubCategory] == model.SwitchOpen,
	}
	return site.Normalize()
}

// All 所有配置项
func (s *SettingService) All(ctx context.Context) (map[string]string, error) {
	var settings []model.Setting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("查询配置失败: %v", err)
	}
	values := make(map[string]string, len(settings))
	for _, st := range settings {
		values[st.Key] = st.Value
	}
	return values, nil
}

// List 配置列表
func (s *SettingService) List(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("查询配置失败: %v", err)
	}
	return settings, nil
}

// Update 批量写入配置，不存在的键会被创建
func (s *SettingService) Update(ctx context.Context, values map[string]string) error {
	if _, ok := values[SettingTheme]; ok {
		return fmt.Errorf("%w: 请通过切换模板套装修改当前主题", ErrInvalidParam)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsert(tx, values)
	})
	if err != nil {
		return fmt.Errorf("更新配置失败: %v", err)
	}
	s.Invalidate(ctx)
	return nil
}

func (s *SettingService) upsert(tx *gorm.DB, values map[string]string) error {
	for key, value := range values {
		setting := model.Setting{Key: key, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}

// Invalidate 清除配置快照缓存
func (s *SettingService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.SettingsSnapshotKey); err != nil {
		s.logger.Warnf("清除配置缓存失败: %v", err)
	}
}
