package service

import (
	"context"
	"testing"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newLogService(t *testing.T) (*BuildLogService, *repository.BuildLogRepository) {
	t.Helper()
	repo := repository.NewBuildLogRepository(newTestDB(t))
	s := newBuildLogService(repo, nopLog)
	s.now = func() time.Time { return logNow }
	return s, repo
}

func addLog(t *testing.T, repo *repository.BuildLogRepository, scope, status string, age time.Duration) {
	t.Helper()
	require.NoError(t, repo.Record(context.Background(), &model.BuildLog{
		BuildType: model.BuildTypeManual,
		Scope:     scope,
		Status:    status,
		CreatedAt: logNow.Add(-age),
	}))
}

func TestClearRequiresSevenDays(t *testing.T) {
	s, _ := newLogService(t)

	for _, days := range []int{-1, 0, 6} {
		_, err := s.Clear(context.Background(), days)
		assert.ErrorIs(t, err, ErrInvalidParam)
		assert.Contains(t, err.Error(), "至少保留7天的日志")
	}
}

func TestClearDeletesOlderRecords(t *testing.T) {
	s, repo := newLogService(t)
	addLog(t, repo, "index", model.BuildStatusSuccess, 10*24*time.Hour)
	addLog(t, repo, "index", model.BuildStatusSuccess, 8*24*time.Hour)
	addLog(t, repo, "index", model.BuildStatusSuccess, 6*24*time.Hour)
	addLog(t, repo, "index", model.BuildStatusSuccess, time.Hour)

	n, err := s.Clear(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	logs, total, err := s.List(context.Background(), &dto.BuildLogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)
}

func TestListFiltersAndOrders(t *testing.T) {
	s, repo := newLogService(t)
	addLog(t, repo, "article", model.BuildStatusSuccess, 3*time.Hour)
	addLog(t, repo, "article", model.BuildStatusFailed, 2*time.Hour)
	addLog(t, repo, "tag", model.BuildStatusFailed, time.Hour)

	logs, total, err := s.List(context.Background(), &dto.BuildLogListRequest{Status: model.BuildStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Equal(t, "tag", logs[0].Scope)
	assert.Greater(t, logs[0].ID, logs[1].ID)

	logs, _, err = s.List(context.Background(), &dto.BuildLogListRequest{Scope: "article", PageSize: 1, Page: 2})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.BuildStatusSuccess, logs[0].Status)
}

func TestBatchDelete(t *testing.T) {
	s, repo := newLogService(t)
	addLog(t, repo, "index", model.BuildStatusSuccess, time.Hour)
	addLog(t, repo, "index", model.BuildStatusSuccess, time.Hour)

	_, err := s.BatchDelete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidParam)

	n, err := s.BatchDelete(context.Background(), []uint{1, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStats(t *testing.T) {
	s, repo := newLogService(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Nil(t, stats.LastFailure)
	assert.NotNil(t, stats.ByScope)

	addLog(t, repo, "article", model.BuildStatusSuccess, 3*time.Hour)
	addLog(t, repo, "article", model.BuildStatusFailed, 2*time.Hour)
	addLog(t, repo, "tag", model.BuildStatusFailed, time.Hour)

	stats, err = s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Len(t, stats.ByScope, 3)
	require.NotNil(t, stats.LastFailure)
	assert.Equal(t, "tag", stats.LastFailure.Scope)
}
