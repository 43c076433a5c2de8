package service

import (
	"context"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/store"

	"go.uber.org/zap"
)

// DateLayout 按日汇总结果的键格式
const DateLayout = "2006-01-02"

// ClickEventView 点击事件对外投影
// os、延迟、状态码等字段保留在存储里，但不在此投影中暴露
type ClickEventView struct {
	ID         uint      `json:"id"`
	ClickDate  time.Time `json:"click_date"`
	IPAddress  string    `json:"ip_address"`
	Country    string    `json:"country"`
	Browser    string    `json:"browser"`
	DeviceType string    `json:"device_type"`
	Referer    string    `json:"referer"`
	IsBot      bool      `json:"is_bot"`
}

// Analytics 面向所有者的点击分析查询
type Analytics struct {
	mappings *store.MappingStore
	clicks   *store.ClickStore
	logger   *zap.SugaredLogger
}

// NewAnalytics 创建分析查询实例
func NewAnalytics(mappings *store.MappingStore, clicks *store.ClickStore, logger *zap.SugaredLogger) *Analytics {
	return &Analytics{
		mappings: mappings,
		clicks:   clicks,
		logger:   logger.Named("analytics"),
	}
}

// ListEventsForOwner 取一条映射在闭区间 [start, end] 内的点击事件投影
// 先校验所有权：映射不属于调用者时返回 ErrUnauthorized，不返回任何数据
func (a *Analytics) ListEventsForOwner(ctx context.Context, code string, userID uint, start, end time.Time) ([]ClickEventView, error) {
	mapping, err := ownedMapping(ctx, a.mappings, code, userID)
	if err != nil {
		return nil, err
	}

	events, err := a.clicks.ListByMappingAndRange(ctx, mapping.ID, start, end)
	if err != nil {
		return nil, err
	}

	views := make([]ClickEventView, 0, len(events))
	for _, ev := range events {
		views = append(views, ClickEventView{
			ID:         ev.ID,
			ClickDate:  ev.ClickDate,
			IPAddress:  ev.IPAddress,
			Country:    ev.Country,
			Browser:    ev.Browser,
			DeviceType: ev.DeviceType,
			Referer:    ev.Referer,
			IsBot:      ev.IsBot,
		})
	}
	return views, nil
}

// TotalsByDateForOwner 按自然日汇总用户名下全部映射的点击数
//
// 日期区间 [startDate, endDate] 两端含当天整天，
// 没有点击的日期不会出现在结果里（缺席即为零）。
func (a *Analytics) TotalsByDateForOwner(ctx context.Context, userID uint, startDate, endDate time.Time) (map[string]int64, error) {
	start := startOfDay(startDate)
	end := startOfDay(endDate).AddDate(0, 0, 1)

	events, err := a.clicks.ListByUserAndRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, ev := range events {
		totals[ev.ClickDate.Format(DateLayout)]++
	}
	return totals, nil
}

// ownedMapping 按访问码取映射并校验归属
func ownedMapping(ctx context.Context, mappings *store.MappingStore, code string, userID uint) (*model.UrlMapping, error) {
	mapping, err := mappings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if mapping.UserID != userID {
		return nil, ErrUnauthorized
	}
	return mapping, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
