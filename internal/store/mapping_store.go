// Package store 封装映射与点击事件的持久化访问
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/shortcode"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 没有任何映射匹配给定的访问码
	ErrNotFound = errors.New("短链接不存在")

	// ErrAliasTaken 自定义别名已被占用
	ErrAliasTaken = errors.New("自定义别名已被占用")
)

// MappingStore 短链接映射存储
type MappingStore struct {
	db *gorm.DB
}

// NewMappingStore 创建映射存储实例
func NewMappingStore(db *gorm.DB) *MappingStore {
	return &MappingStore{db: db}
}

// Create 两段式创建映射：先入库拿到自增 ID，再由 ID 推导短码后保存
// 自定义别名在入库前做占用检查，冲突返回 ErrAliasTaken
func (s *MappingStore) Create(ctx context.Context, m *model.UrlMapping) error {
	if m.CustomAlias != nil && *m.CustomAlias != "" {
		taken, err := s.AliasExists(ctx, *m.CustomAlias)
		if err != nil {
			return err
		}
		if taken {
			return ErrAliasTaken
		}
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("写入映射失败: %w", err)
	}

	code, err := shortcode.Encode(uint64(m.ID))
	if err != nil {
		return fmt.Errorf("生成短码失败: %w", err)
	}
	m.ShortURL = code

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("保存短码失败: %w", err)
	}
	return nil
}

// FindByShortURL 按生成短码精确查找
func (s *MappingStore) FindByShortURL(ctx context.Context, code string) (*model.UrlMapping, error) {
	var m model.UrlMapping
	err := s.db.WithContext(ctx).Where("short_url = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByCustomAlias 按自定义别名精确查找
func (s *MappingStore) FindByCustomAlias(ctx context.Context, alias string) (*model.UrlMapping, error) {
	var m model.UrlMapping
	err := s.db.WithContext(ctx).Where("custom_alias = ?", alias).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByCode 按访问码查找：短码或别名均可命中
// 两列各自带唯一索引，最多只会命中一条
func (s *MappingStore) FindByCode(ctx context.Context, code string) (*model.UrlMapping, error) {
	var m model.UrlMapping
	err := s.db.WithContext(ctx).
		Where("short_url = ? OR custom_alias = ?", code, code).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AliasExists 检查别名是否已被占用
func (s *MappingStore) AliasExists(ctx context.Context, alias string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UrlMapping{}).
		Where("custom_alias = ?", alias).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser 列出用户的全部映射，新建在前
func (s *MappingStore) ListByUser(ctx context.Context, userID uint) ([]model.UrlMapping, error) {
	var list []model.UrlMapping
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// SearchByUser 在用户自己的映射里做不区分大小写的关键字检索
// 匹配范围：原始 URL、短码、别名
func (s *MappingStore) SearchByUser(ctx context.Context, userID uint, keyword string) ([]model.UrlMapping, error) {
	pattern := "%" + keyword + "%"
	var list []model.UrlMapping
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(
			s.db.Where("LOWER(original_url) LIKE LOWER(?)", pattern).
				Or("LOWER(short_url) LIKE LOWER(?)", pattern).
				Or("LOWER(custom_alias) LIKE LOWER(?)", pattern),
		).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindExpiringBefore 找出在给定时刻之前到期的映射，供清理任务使用
func (s *MappingStore) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.UrlMapping, error) {
	var list []model.UrlMapping
	err := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Find(&list).Error
	return list, err
}

// FindInactive 找出已停用的映射
func (s *MappingStore) FindInactive(ctx context.Context) ([]model.UrlMapping, error) {
	var list []model.UrlMapping
	err := s.db.WithContext(ctx).Where("is_active = ?", false).Find(&list).Error
	return list, err
}

// IncrementClickCount 原子自增点击计数
// 用 SQL 表达式在数据库端完成，并发自增不会互相覆盖
func (s *MappingStore) IncrementClickCount(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&model.UrlMapping{}).
		Where("id = ?", id).
		Update("click_count", gorm.Expr("click_count + 1")).Error
}

// Save 保存映射的字段变更
func (s *MappingStore) Save(ctx context.Context, m *model.UrlMapping) error {
	return s.db.WithContext(ctx).Save(m).Error
}

// Delete 删除映射并级联删除其全部点击事件，两者在同一事务内
func (s *MappingStore) Delete(ctx context.Context, m *model.UrlMapping) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("url_mapping_id = ?", m.ID).Delete(&model.ClickEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}
