package service

import (
	"context"
	"fmt"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateMappingInput 创建短链接的可选项
type CreateMappingInput struct {
	OriginalURL string
	CustomAlias string
	ExpiresAt   *time.Time
	Password    string
	Category    string
}

// UpdateMappingInput 更新短链接的可选项，nil 表示不改动对应字段
type UpdateMappingInput struct {
	ExpiresAt      *time.Time
	IsActive       *bool
	Password       *string
	RemovePassword bool
	Category       *string
}

// MappingService 所有者视角的短链接管理
type MappingService struct {
	mappings *store.MappingStore
	cache    *redis.Client // 可为 nil
	logger   *zap.SugaredLogger
}

// NewMappingService 创建管理服务实例
func NewMappingService(mappings *store.MappingStore, cache *redis.Client, logger *zap.SugaredLogger) *MappingService {
	return &MappingService{
		mappings: mappings,
		cache:    cache,
		logger:   logger.Named("mapping"),
	}
}

// Create 为用户创建一条映射
// 别名冲突返回 store.ErrAliasTaken；短码由存储层从自增 ID 推导
func (s *MappingService) Create(ctx context.Context, userID uint, in CreateMappingInput) (*model.UrlMapping, error) {
	mapping := &model.UrlMapping{
		OriginalURL: in.OriginalURL,
		IsCustom:    in.CustomAlias != "",
		IsActive:    true,
		ExpiresAt:   in.ExpiresAt,
		Category:    in.Category,
		UserID:      userID,
	}
	if in.CustomAlias != "" {
		alias := in.CustomAlias
		mapping.CustomAlias = &alias
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
		h := string(hash)
		mapping.ProtectedURL = true
		mapping.PasswordHash = &h
	}

	if err := s.mappings.Create(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// DetailsForOwner 取映射详情，非所有者返回 ErrUnauthorized
func (s *MappingService) DetailsForOwner(ctx context.Context, code string, userID uint) (*model.UrlMapping, error) {
	return ownedMapping(ctx, s.mappings, code, userID)
}

// ListForUser 列出用户的全部映射
func (s *MappingService) ListForUser(ctx context.Context, userID uint) ([]model.UrlMapping, error) {
	return s.mappings.ListByUser(ctx, userID)
}

// SearchForUser 在用户自己的映射中检索关键字
func (s *MappingService) SearchForUser(ctx context.Context, userID uint, keyword string) ([]model.UrlMapping, error) {
	return s.mappings.SearchByUser(ctx, userID, keyword)
}

// Update 更新映射的可变字段，所有权校验在先
func (s *MappingService) Update(ctx context.Context, code string, userID uint, in UpdateMappingInput) (*model.UrlMapping, error) {
	mapping, err := ownedMapping(ctx, s.mappings, code, userID)
	if err != nil {
		return nil, err
	}

	if in.ExpiresAt != nil {
		mapping.ExpiresAt = in.ExpiresAt
	}
	if in.IsActive != nil {
		mapping.IsActive = *in.IsActive
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
		h := string(hash)
		mapping.ProtectedURL = true
		mapping.PasswordHash = &h
	}
	if in.RemovePassword {
		mapping.ProtectedURL = false
		mapping.PasswordHash = nil
	}
	if in.Category != nil {
		mapping.Category = *in.Category
	}

	if err := s.mappings.Save(ctx, mapping); err != nil {
		return nil, err
	}
	s.invalidate(ctx, mapping)
	return mapping, nil
}

// Delete 删除映射及其全部点击事件
func (s *MappingService) Delete(ctx context.Context, code string, userID uint) error {
	mapping, err := ownedMapping(ctx, s.mappings, code, userID)
	if err != nil {
		return err
	}
	if err := s.mappings.Delete(ctx, mapping); err != nil {
		return err
	}
	s.invalidate(ctx, mapping)
	return nil
}

// invalidate 清掉重定向路径上短码与别名两个缓存键
func (s *MappingService) invalidate(ctx context.Context, m *model.UrlMapping) {
	if s.cache == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	keys := []string{cacheKeyPrefix + m.ShortURL}
	if m.CustomAlias != nil && *m.CustomAlias != "" {
		keys = append(keys, cacheKeyPrefix+*m.CustomAlias)
	}
	if err := s.cache.Del(cctx, keys...).Err(); err != nil {
		s.logger.Warnw("缓存失效失败", "short_url", m.ShortURL, "error", err)
	}
}
