package service

import (
	"context"
	"encoding/json"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/store"
	"shortlink-platform/internal/useragent"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedirectStatus 重定向固定使用的 HTTP 状态码
const RedirectStatus = 302

const (
	cacheKeyPrefix = "mapping:"
	cacheTTL       = 24 * time.Hour
)

// Resolver 把访问码解析为目标 URL，并负责点击数据落库
type Resolver struct {
	mappings *store.MappingStore
	clicks   *store.ClickStore
	cache    *redis.Client // 可为 nil
	logger   *zap.SugaredLogger
}

// NewResolver 创建解析器实例
func NewResolver(mappings *store.MappingStore, clicks *store.ClickStore, cache *redis.Client, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{
		mappings: mappings,
		clicks:   clicks,
		cache:    cache,
		logger:   logger.Named("resolver"),
	}
}

// Resolve 完整的重定向解析：查找 → 校验 → 计数 → 记录点击事件
//
// 校验（停用、过期）全部通过之后才会发生任何写入；
// 校验失败时映射保持原样，不计数也不记事件。
// 点击事件的落库是尽力而为：失败只记日志，不影响已决定的重定向结果。
func (r *Resolver) Resolve(ctx context.Context, code string, visit *Visit) (*model.UrlMapping, error) {
	started := time.Now()

	mapping, err := r.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if !mapping.IsActive {
		return nil, ErrDisabled
	}
	if mapping.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if err := r.mappings.IncrementClickCount(ctx, mapping.ID); err != nil {
		return nil, err
	}
	mapping.ClickCount++

	event := r.buildClickEvent(mapping.ID, visit, started)
	if err := r.clicks.Append(ctx, event); err != nil {
		r.logger.Warnw("点击事件写入失败", "code", code, "error", err)
	}

	return mapping, nil
}

// ResolveCode 无请求上下文的解析变体，供非 HTTP 调用方使用
// 仍会自增点击计数，但不写点击事件，计数因此可能大于事件数
func (r *Resolver) ResolveCode(ctx context.Context, code string) (*model.UrlMapping, error) {
	mapping, err := r.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if !mapping.IsActive {
		return nil, ErrDisabled
	}
	if mapping.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if err := r.mappings.IncrementClickCount(ctx, mapping.ID); err != nil {
		return nil, err
	}
	mapping.ClickCount++

	return mapping, nil
}

// lookup 按短码或别名取映射，带缓存
// 缓存存的是整条记录而不是目标 URL，停用与过期校验对缓存命中同样生效
func (r *Resolver) lookup(ctx context.Context, code string) (*model.UrlMapping, error) {
	if r.cache != nil {
		cctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if raw, err := r.cache.Get(cctx, cacheKeyPrefix+code).Result(); err == nil {
			var m model.UrlMapping
			if json.Unmarshal([]byte(raw), &m) == nil {
				return &m, nil
			}
		}
	}

	mapping, err := r.mappings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(mapping); err == nil {
			cctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			r.cache.Set(cctx, cacheKeyPrefix+code, raw, cacheTTL)
		}
	}
	return mapping, nil
}

// buildClickEvent 从访问上下文推导点击事件的各项分析属性
func (r *Resolver) buildClickEvent(mappingID uint, visit *Visit, started time.Time) *model.ClickEvent {
	if visit == nil {
		visit = &Visit{}
	}
	return &model.ClickEvent{
		UrlMappingID:   mappingID,
		ClickDate:      time.Now(),
		IPAddress:      visit.IP,
		UserAgent:      visit.UserAgent,
		Referer:        visit.Referer,
		DeviceType:     useragent.DeviceType(visit.UserAgent),
		Browser:        useragent.Browser(visit.UserAgent),
		OS:             useragent.OS(visit.UserAgent),
		IsBot:          false,
		ResponseStatus: RedirectStatus,
		LatencyMs:      int(time.Since(started).Milliseconds()),
	}
}
