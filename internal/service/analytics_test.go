package service

import (
	"context"
	"testing"
	"time"

	"shortlink-platform/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (e *testEnv) appendClick(t *testing.T, mappingID uint, at time.Time) {
	t.Helper()
	require.NoError(t, e.clicks.Append(context.Background(), &model.ClickEvent{
		UrlMappingID:   mappingID,
		ClickDate:      at,
		ResponseStatus: RedirectStatus,
	}))
}

func newAnalytics(e *testEnv) *Analytics {
	return NewAnalytics(e.mappings, e.clicks, zap.NewNop().Sugar())
}

func TestListEventsForOwner(t *testing.T) {
	env := setupEnv(t)
	analytics := newAnalytics(env)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	env.appendClick(t, m.ID, base.Add(-time.Hour)) // 区间外
	env.appendClick(t, m.ID, base)                 // 左端点，含
	env.appendClick(t, m.ID, base.Add(time.Hour))  // 区间内
	env.appendClick(t, m.ID, base.Add(3*time.Hour)) // 区间外

	views, err := analytics.ListEventsForOwner(context.Background(), m.ShortURL, env.user.ID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.NotZero(t, v.ID)
		assert.False(t, v.ClickDate.IsZero())
	}
}

func TestListEventsForOwnerUnauthorized(t *testing.T) {
	env := setupEnv(t)
	analytics := newAnalytics(env)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})
	env.appendClick(t, m.ID, time.Now())

	stranger := &model.User{Username: "mallory", Email: "mallory@example.com", IsActive: true, Role: "user"}
	require.NoError(t, stranger.SetPassword("password123"))
	require.NoError(t, env.db.Create(stranger).Error)

	views, err := analytics.ListEventsForOwner(context.Background(), m.ShortURL, stranger.ID, time.Now().Add(-time.Hour), time.Now())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, views, "越权查询不能返回任何数据")
}

// TestTotalsByDateForOwner 有点击的日期计数，没有点击的日期缺席而不是零
func TestTotalsByDateForOwner(t *testing.T) {
	env := setupEnv(t)
	analytics := newAnalytics(env)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	env.appendClick(t, m.ID, day1.Add(8*time.Hour))
	env.appendClick(t, m.ID, day1.Add(12*time.Hour))
	env.appendClick(t, m.ID, day1.Add(23*time.Hour+59*time.Minute))
	env.appendClick(t, m.ID, day3.Add(time.Minute))
	env.appendClick(t, m.ID, day3.Add(9*time.Hour))

	totals, err := analytics.TotalsByDateForOwner(context.Background(), env.user.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"2024-01-01": 3,
		"2024-01-03": 2,
	}, totals)
	_, has := totals["2024-01-02"]
	assert.False(t, has, "没有点击的日期不应出现在结果里")
}

// TestTotalsEndDateInclusive 结束日期含当天整天
func TestTotalsEndDateInclusive(t *testing.T) {
	env := setupEnv(t)
	analytics := newAnalytics(env)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	end := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	env.appendClick(t, m.ID, end.Add(23*time.Hour+30*time.Minute)) // 结束日当天深夜
	env.appendClick(t, m.ID, end.AddDate(0, 0, 1))                 // 次日零点，区间外

	totals, err := analytics.TotalsByDateForOwner(context.Background(), env.user.ID,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), end)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-02-10": 1}, totals)
}

func TestTotalsScopedToOwner(t *testing.T) {
	env := setupEnv(t)
	analytics := newAnalytics(env)

	other := &model.User{Username: "bob", Email: "bob@example.com", IsActive: true, Role: "user"}
	require.NoError(t, other.SetPassword("password123"))
	require.NoError(t, env.db.Create(other).Error)

	mine := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com/mine", IsActive: true})
	theirs := &model.UrlMapping{OriginalURL: "https://example.com/theirs", IsActive: true, UserID: other.ID}
	require.NoError(t, env.mappings.Create(context.Background(), theirs))

	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.appendClick(t, mine.ID, day)
	env.appendClick(t, theirs.ID, day)

	totals, err := analytics.TotalsByDateForOwner(context.Background(), env.user.ID,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-03-01": 1}, totals, "只统计自己名下的映射")
}
