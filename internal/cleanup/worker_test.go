package cleanup

import (
	"context"
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

func setupStore(t *testing.T) (*gorm.DB, *store.MappingStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err, "无法连接到内存数据库")
	require.NoError(t, database.Migrate(db), "数据库迁移失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db, store.NewMappingStore(db)
}

func TestSweepDeactivatesExpired(t *testing.T) {
	db, ms := setupStore(t)
	ctx := context.Background()

	user := &model.User{Username: "alice", Email: "alice@example.com", IsActive: true, Role: "user"}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := &model.UrlMapping{OriginalURL: "https://example.com/old", ExpiresAt: &past, IsActive: true, UserID: user.ID}
	require.NoError(t, ms.Create(ctx, expired))
	alive := &model.UrlMapping{OriginalURL: "https://example.com/new", ExpiresAt: &future, IsActive: true, UserID: user.ID}
	require.NoError(t, ms.Create(ctx, alive))
	forever := &model.UrlMapping{OriginalURL: "https://example.com/forever", IsActive: true, UserID: user.ID}
	require.NoError(t, ms.Create(ctx, forever))

	w := NewWorker(ms, time.Minute, zap.NewNop().Sugar())
	w.Sweep(ctx)

	var got model.UrlMapping
	require.NoError(t, db.First(&got, expired.ID).Error)
	assert.False(t, got.IsActive, "过期映射应被停用")

	got = model.UrlMapping{}
	require.NoError(t, db.First(&got, alive.ID).Error)
	assert.True(t, got.IsActive, "未过期映射不受影响")

	got = model.UrlMapping{}
	require.NoError(t, db.First(&got, forever.ID).Error)
	assert.True(t, got.IsActive, "无过期时间的映射不受影响")

	// 再扫一遍应是幂等的
	w.Sweep(ctx)
	got = model.UrlMapping{}
	require.NoError(t, db.First(&got, expired.ID).Error)
	assert.False(t, got.IsActive)
}
