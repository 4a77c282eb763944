package service

import (
	"context"
	"testing"

	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCategoryCreateDefaultsEnabled(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	events := &recordingPublisher{}
	s := newCategoryService(db, events, "/html", nopLog)

	c, err := s.Create(ctx, &dto.CategorySaveRequest{Name: "技术"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnabled, c.Status)
	assert.Equal(t, []event.Topic{event.CategoryUpdated}, events.topics())

	_, err = s.Create(ctx, &dto.CategorySaveRequest{Name: "技术"})
	assert.ErrorIs(t, err, ErrConflict)

	hidden, err := s.Create(ctx, &dto.CategorySaveRequest{Name: "隐藏", Status: intPtr(model.StatusDisabled)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDisabled, hidden.Status)
	assert.Len(t, events.topics(), 1)
}

func TestCategoryUpdateAndCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newCategoryService(db, nil, "/html", nopLog)
	c := seedCategory(t, db, "技术", model.StatusEnabled)
	other := seedCategory(t, db, "生活", model.StatusEnabled)
	seedPublished(t, db, "一", c.ID)
	seedPublished(t, db, "二", c.ID)

	_, err := s.Update(ctx, c.ID, &dto.CategorySaveRequest{Name: "生活"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := s.Update(ctx, c.ID, &dto.CategorySaveRequest{Name: "编程", Template: "special", Sort: 5})
	require.NoError(t, err)
	assert.Equal(t, "编程", updated.Name)
	assert.Equal(t, "special", updated.Template)
	assert.Equal(t, model.StatusEnabled, updated.Status)

	resp, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ArticleCount)
	assert.Equal(t, "/html/category/1.html", resp.StaticURL)

	list, err := s.List(ctx, &dto.CategoryListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), list.Total)
	assert.Equal(t, other.ID, list.List[0].ID)
	assert.Zero(t, list.List[0].ArticleCount)

	assert.ErrorIs(t, s.Delete(ctx, c.ID), ErrConflict)
	require.NoError(t, s.Delete(ctx, other.ID))
	_, err = s.Get(ctx, other.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestTagLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	events := &recordingPublisher{}
	s := newTagService(db, events, "/html", nopLog)

	tag, err := s.Create(ctx, &dto.TagSaveRequest{Name: "go"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnabled, tag.Status)

	_, err = s.Create(ctx, &dto.TagSaveRequest{Name: "go"})
	assert.ErrorIs(t, err, ErrConflict)

	c := seedCategory(t, db, "技术", model.StatusEnabled)
	a := seedPublished(t, db, "一", c.ID)
	require.NoError(t, db.Create(&model.ArticleTag{ArticleID: a.ID, TagID: tag.ID}).Error)

	resp, err := s.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ArticleCount)
	assert.Equal(t, "/html/tag/1.html", resp.StaticURL)

	disabled, err := s.Update(ctx, tag.ID, &dto.TagSaveRequest{Name: "golang", Status: intPtr(model.StatusDisabled)})
	require.NoError(t, err)
	assert.Equal(t, "golang", disabled.Name)
	assert.Equal(t, []event.Topic{event.TagUpdated}, events.topics())

	list, err := s.List(ctx, &dto.TagListRequest{Keyword: "lang"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	require.NoError(t, s.Delete(ctx, tag.ID))
	var links int64
	require.NoError(t, db.Model(&model.ArticleTag{}).Count(&links).Error)
	assert.Zero(t, links)
}
