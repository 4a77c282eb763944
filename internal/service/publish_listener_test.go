package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerRetrySkipsPermanentErrors(t *testing.T) {
	l := NewPublishListener(nil, 3, nopLog)
	l.delay = time.Millisecond

	for _, permanent := range []error{staticgen.ErrNotFound, staticgen.ErrNotPublished} {
		calls := 0
		err := l.retry(context.Background(), func() error {
			calls++
			return &staticgen.BuildError{Scope: staticgen.ScopeArticle, TargetID: 1, Err: permanent}
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	}

	calls := 0
	err := l.retry(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: disk full", staticgen.ErrIO)
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = l.retry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("temporary")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPublishTriggersRebuild(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	e, cfg := newTestEngine(t, db)
	settings := newSettingService(db, nil, nopLog)
	builds := newBuildService(e.Builder, settings, e.PublicPath, nopLog)
	NewPublishListener(builds, 1, nopLog).Register(e.Bus)

	tags := newTagService(db, e.Bus, e.PublicPath, nopLog)
	articles := newArticleService(db, settings, tags, e.Bus, e.PublicPath, nopLog)
	c := seedCategory(t, db, "技术", model.StatusEnabled)

	a, err := articles.Create(ctx, &dto.ArticleSaveRequest{Title: "自动生成", Content: "正文", CategoryID: c.ID})
	require.NoError(t, err)
	_, err = articles.Publish(ctx, a.ID)
	require.NoError(t, err)

	// 关闭总线会等待已入队事件处理完毕
	e.Bus.Shutdown()

	for _, rel := range []string{staticgen.ArticlePath(a.ID), staticgen.IndexPath(), staticgen.ArticleListPath(1)} {
		_, err := os.Stat(filepath.Join(cfg.Static.OutputDir, rel))
		assert.NoError(t, err, rel)
	}

	var logs []model.BuildLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, model.BuildTypeAuto, l.BuildType)
		assert.Equal(t, model.BuildStatusSuccess, l.Status)
	}
	assert.Equal(t, []string{"article", "index", "articles"}, []string{logs[0].Scope, logs[1].Scope, logs[2].Scope})
}

func TestListenerIgnoresBadPayload(t *testing.T) {
	bus := event.NewBus(1, 4, nil)
	l := NewPublishListener(nil, 1, nopLog)
	l.Register(bus)

	assert.True(t, bus.Publish(event.TagUpdated, "not-an-id"))
	bus.Shutdown()
}
