package store

import (
	"context"
	"time"

	"shortlink-platform/internal/model"

	"gorm.io/gorm"
)

// ClickStore 点击事件存储，事件只追加不修改
type ClickStore struct {
	db *gorm.DB
}

// NewClickStore 创建点击事件存储实例
func NewClickStore(db *gorm.DB) *ClickStore {
	return &ClickStore{db: db}
}

// Append 追加一条点击事件
// ClickDate 由写入时刻决定，不接受调用方传入的零值以外的覆盖
func (s *ClickStore) Append(ctx context.Context, ev *model.ClickEvent) error {
	if ev.ClickDate.IsZero() {
		ev.ClickDate = time.Now()
	}
	return s.db.WithContext(ctx).Create(ev).Error
}

// ListByMappingAndRange 取一条映射在闭区间 [start, end] 内的全部点击事件
func (s *ClickStore) ListByMappingAndRange(ctx context.Context, mappingID uint, start, end time.Time) ([]model.ClickEvent, error) {
	var events []model.ClickEvent
	err := s.db.WithContext(ctx).
		Where("url_mapping_id = ? AND click_date BETWEEN ? AND ?", mappingID, start, end).
		Order("click_date ASC").
		Find(&events).Error
	return events, err
}

// ListByUserAndRange 取用户名下全部映射在 [start, end) 内的点击事件
// 用于按日汇总，end 为半开区间上界
func (s *ClickStore) ListByUserAndRange(ctx context.Context, userID uint, start, end time.Time) ([]model.ClickEvent, error) {
	var events []model.ClickEvent
	err := s.db.WithContext(ctx).
		Joins("JOIN url_mappings ON url_mappings.id = click_events.url_mapping_id").
		Where("url_mappings.user_id = ?", userID).
		Where("click_events.click_date >= ? AND click_events.click_date < ?", start, end).
		Order("click_events.click_date DESC").
		Find(&events).Error
	return events, err
}

// CountByMapping 统计一条映射现存的事件数
func (s *ClickStore) CountByMapping(ctx context.Context, mappingID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ClickEvent{}).
		Where("url_mapping_id = ?", mappingID).
		Count(&count).Error
	return count, err
}
