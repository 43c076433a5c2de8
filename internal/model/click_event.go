package model

import (
	"time"
)

// ClickEvent 点击事件，每次成功重定向追加一条，只增不改
type ClickEvent struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UrlMappingID uint      `gorm:"not null;index:idx_click_url_date,priority:1" json:"url_mapping_id"`
	ClickDate    time.Time `gorm:"index:idx_click_url_date,priority:2" json:"click_date"`

	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"type:text" json:"user_agent"`
	Referer   string `gorm:"type:text" json:"referer"`

	Country     string `gorm:"size:100" json:"country"`
	CountryCode string `gorm:"size:8" json:"country_code"`
	Region      string `gorm:"size:100" json:"region"`
	City        string `gorm:"size:100" json:"city"`

	// 由 User-Agent 推导
	DeviceType string `gorm:"size:20" json:"device_type"`
	OS         string `gorm:"size:50" json:"os"`
	Browser    string `gorm:"size:50" json:"browser"`

	IsBot bool `gorm:"default:false" json:"is_bot"`

	ResponseStatus int `json:"response_status"`
	LatencyMs      int `json:"latency_ms"`
}

func (ClickEvent) TableName() string {
	return "click_events"
}
