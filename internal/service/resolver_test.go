package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/store"
	"shortlink-platform/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mappings *store.MappingStore
	clicks   *store.ClickStore
	resolver *Resolver
	user     *model.User
}

// setupEnv 初始化内存数据库与解析器，测试不依赖 Redis
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err, "无法连接到内存数据库")
	require.NoError(t, database.Migrate(db), "数据库迁移失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	mappings := store.NewMappingStore(db)
	clicks := store.NewClickStore(db)

	user := &model.User{Username: "alice", Email: "alice@example.com", IsActive: true, Role: "user"}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	return &testEnv{
		db:       db,
		mappings: mappings,
		clicks:   clicks,
		resolver: NewResolver(mappings, clicks, nil, logger),
		user:     user,
	}
}

func (e *testEnv) createMapping(t *testing.T, m *model.UrlMapping) *model.UrlMapping {
	t.Helper()
	m.UserID = e.user.ID
	require.NoError(t, e.mappings.Create(context.Background(), m))
	return m
}

// assertUntouched 校验失败后映射必须原封不动：计数不变、事件数不变
func (e *testEnv) assertUntouched(t *testing.T, id uint, wantCount int64) {
	t.Helper()
	var m model.UrlMapping
	require.NoError(t, e.db.First(&m, id).Error)
	assert.Equal(t, wantCount, m.ClickCount, "失败的解析不应改动计数")

	events, err := e.clicks.CountByMapping(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, events, "失败的解析不应写点击事件")
}

func TestResolveNotFound(t *testing.T) {
	env := setupEnv(t)
	_, err := env.resolver.Resolve(context.Background(), "missing", &Visit{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveDisabled(t *testing.T) {
	env := setupEnv(t)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})
	require.NoError(t, env.db.Model(m).Update("is_active", false).Error)

	_, err := env.resolver.Resolve(context.Background(), m.ShortURL, &Visit{})
	assert.ErrorIs(t, err, ErrDisabled)
	env.assertUntouched(t, m.ID, 0)
}

func TestResolveExpired(t *testing.T) {
	env := setupEnv(t)
	past := time.Now().Add(-time.Minute)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true, ExpiresAt: &past})

	_, err := env.resolver.Resolve(context.Background(), m.ShortURL, &Visit{})
	assert.ErrorIs(t, err, ErrExpired)
	env.assertUntouched(t, m.ID, 0)
}

func TestResolveFutureExpiryStillWorks(t *testing.T) {
	env := setupEnv(t)
	future := time.Now().Add(time.Hour)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true, ExpiresAt: &future})

	got, err := env.resolver.Resolve(context.Background(), m.ShortURL, &Visit{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.OriginalURL)
}

func TestResolveRecordsClick(t *testing.T) {
	env := setupEnv(t)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	visit := &Visit{
		IP:        "203.0.113.9",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0.0.0 Safari/537.36",
		Referer:   "https://news.example.com",
	}
	got, err := env.resolver.Resolve(context.Background(), m.ShortURL, visit)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.OriginalURL)
	assert.Equal(t, int64(1), got.ClickCount)

	var stored model.UrlMapping
	require.NoError(t, env.db.First(&stored, m.ID).Error)
	assert.Equal(t, int64(1), stored.ClickCount, "成功解析恰好自增一次")

	var events []model.ClickEvent
	require.NoError(t, env.db.Where("url_mapping_id = ?", m.ID).Find(&events).Error)
	require.Len(t, events, 1, "成功解析恰好追加一条事件")

	ev := events[0]
	assert.Equal(t, "203.0.113.9", ev.IPAddress)
	assert.Equal(t, "https://news.example.com", ev.Referer)
	assert.Equal(t, "desktop", ev.DeviceType)
	assert.Equal(t, "Chrome", ev.Browser)
	assert.Equal(t, "Windows", ev.OS)
	assert.False(t, ev.IsBot)
	assert.Equal(t, RedirectStatus, ev.ResponseStatus)
	assert.False(t, ev.ClickDate.IsZero())
}

func TestResolveByCustomAlias(t *testing.T) {
	env := setupEnv(t)
	alias := "team-wiki"
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://wiki.example.com", CustomAlias: &alias, IsCustom: true, IsActive: true})

	got, err := env.resolver.Resolve(context.Background(), "team-wiki", &Visit{})
	require.NoError(t, err)
	assert.Equal(t, m.OriginalURL, got.OriginalURL)
}

func TestResolveMissingUserAgent(t *testing.T) {
	env := setupEnv(t)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	_, err := env.resolver.Resolve(context.Background(), m.ShortURL, &Visit{IP: "203.0.113.9"})
	require.NoError(t, err)

	var ev model.ClickEvent
	require.NoError(t, env.db.Where("url_mapping_id = ?", m.ID).First(&ev).Error)
	assert.Equal(t, "unknown", ev.DeviceType)
	assert.Equal(t, "unknown", ev.Browser)
	assert.Equal(t, "unknown", ev.OS)
}

// TestResolveCodeSkipsClickEvent 无上下文变体只计数不写事件
func TestResolveCodeSkipsClickEvent(t *testing.T) {
	env := setupEnv(t)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	got, err := env.resolver.ResolveCode(context.Background(), m.ShortURL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount)

	events, err := env.clicks.CountByMapping(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Zero(t, events, "无上下文解析不写点击事件，计数可以大于事件数")
}

// TestConcurrentResolves N 次并发成功解析后计数恰为 N，事件恰为 N 条
func TestConcurrentResolves(t *testing.T) {
	env := setupEnv(t)
	m := env.createMapping(t, &model.UrlMapping{OriginalURL: "https://example.com", IsActive: true})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := env.resolver.Resolve(context.Background(), m.ShortURL, &Visit{IP: "203.0.113.9"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var stored model.UrlMapping
	require.NoError(t, env.db.First(&stored, m.ID).Error)
	assert.Equal(t, int64(n), stored.ClickCount)

	events, err := env.clicks.CountByMapping(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), events)
}
