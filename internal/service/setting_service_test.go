package service

import (
	"context"
	"testing"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotUsesDefaults(t *testing.T) {
	db := newTestDB(t)
	s := newSettingService(db, nil, nopLog)

	site, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CMS系统", site.SiteName)
	assert.Equal(t, "index", site.IndexTemplate)
	assert.Equal(t, "default", site.Theme)
	assert.True(t, site.RecycleBinEnabled)
	assert.False(t, site.SubCategoryEnabled)
}

func TestSnapshotFillsMissingKeys(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&model.Setting{}).Error)
	s := newSettingService(db, nil, nopLog)

	site, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CMS系统", site.SiteName)
	assert.Equal(t, "default", site.Theme)
	assert.False(t, site.RecycleBinEnabled)
}

func TestSnapshotCachedUntilUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mem := newMemoryCache()
	s := newSettingService(db, mem, nopLog)

	_, err := s.Snapshot(ctx)
	require.NoError(t, err)
	_, cached := mem.data[cache.SettingsSnapshotKey]
	assert.True(t, cached)

	// 直接改库不会影响缓存中的快照
	setSetting(t, db, SettingSiteName, "直接修改")
	site, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CMS系统", site.SiteName)

	require.NoError(t, s.Update(ctx, map[string]string{SettingSiteName: "新站点", "site_icp": "京ICP备0001号"}))
	assert.Equal(t, 1, mem.deletes)

	site, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "新站点", site.SiteName)
	assert.Equal(t, "京ICP备0001号", site.ICP)
}

func TestUpdateRejectsThemeKey(t *testing.T) {
	db := newTestDB(t)
	s := newSettingService(db, nil, nopLog)

	err := s.Update(context.Background(), map[string]string{SettingTheme: "other"})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSettingList(t *testing.T) {
	db := newTestDB(t)
	s := newSettingService(db, nil, nopLog)

	settings, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, len(model.DefaultSettings))
	assert.Equal(t, "site_name", settings[0].Key)
}
