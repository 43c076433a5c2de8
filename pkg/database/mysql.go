package database

import (
	"fmt"

	"shortlink-platform/internal/config"
	"shortlink-platform/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitMySQL 建立数据库连接并迁移表结构
func InitMySQL(cfg *config.DB) (*gorm.DB, error) {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, charset)

	connection, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	if err := Migrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Migrate 迁移全部表结构，测试用的 sqlite 也走这里
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.UrlMapping{},
		&model.ClickEvent{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
