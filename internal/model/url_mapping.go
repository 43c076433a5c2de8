package model

import (
	"time"
)

// UrlMapping 短链接映射模型
// ShortUrl 由记录 ID 经 Base62 推导，入库后才会赋值，之后不再变更
type UrlMapping struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	OriginalURL string  `gorm:"type:text;not null" json:"original_url"`
	ShortURL    string  `gorm:"size:16;uniqueIndex" json:"short_url"`
	CustomAlias *string `gorm:"size:64;uniqueIndex" json:"custom_alias,omitempty"`
	IsCustom    bool    `gorm:"default:false" json:"is_custom"`

	// 访问控制
	ProtectedURL bool    `gorm:"default:false" json:"protected_url"`
	PasswordHash *string `gorm:"size:255" json:"-"`

	// 链接状态
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// 描述性元数据（由外部流程填充，核心只做透传）
	Title           string   `gorm:"size:255" json:"title,omitempty"`
	MetaDescription string   `gorm:"type:text" json:"meta_description,omitempty"`
	Summary         string   `gorm:"type:text" json:"summary,omitempty"`
	Category        string   `gorm:"size:100" json:"category,omitempty"`
	IsSafe          *bool    `json:"is_safe,omitempty"`
	SafetyScore     *float64 `json:"safety_score,omitempty"`

	// 统计
	ClickCount     int64      `gorm:"default:0" json:"click_count"`
	LastStatusCode int        `json:"last_status_code,omitempty"`
	LastChecked    *time.Time `json:"last_checked,omitempty"`

	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"updated_date"`

	// 归属用户，一条映射只属于一个用户
	UserID uint `gorm:"not null;index" json:"user_id"`
}

// TableName 指定表名
func (UrlMapping) TableName() string {
	return "url_mappings"
}

// Code 返回公开访问码：自定义别名优先，否则为生成的短码
func (m *UrlMapping) Code() string {
	if m.CustomAlias != nil && *m.CustomAlias != "" {
		return *m.CustomAlias
	}
	return m.ShortURL
}

// Expired 判断链接在给定时刻是否已过期
func (m *UrlMapping) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
