package handler

import (
	"errors"
	"net/http"
	"time"

	"shortlink-platform/internal/middleware"
	"shortlink-platform/internal/model"
	"shortlink-platform/internal/service"
	"shortlink-platform/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UrlMappingHandler 短链接相关的 HTTP 处理器
type UrlMappingHandler struct {
	db        *gorm.DB
	resolver  *service.Resolver
	mappings  *service.MappingService
	analytics *service.Analytics
	baseURL   string
}

// NewUrlMappingHandler 创建处理器实例
func NewUrlMappingHandler(db *gorm.DB, resolver *service.Resolver, mappings *service.MappingService, analytics *service.Analytics, baseURL string) *UrlMappingHandler {
	return &UrlMappingHandler{
		db:        db,
		resolver:  resolver,
		mappings:  mappings,
		analytics: analytics,
		baseURL:   baseURL,
	}
}

// HealthCheck 健康检查
func (h *UrlMappingHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// RedirectToOriginal godoc
// @Summary 短链接重定向
// @Description 把访问码（短码或自定义别名）重定向到原始 URL，并记录点击
// @Tags Redirect
// @Param code path string true "短码或别名"
// @Success 302
// @Failure 404 {object} gin.H "链接不存在"
// @Failure 403 {object} gin.H "链接已停用"
// @Failure 410 {object} gin.H "链接已过期"
// @Router /{code} [get]
func (h *UrlMappingHandler) RedirectToOriginal(c *gin.Context) {
	code := c.Param("code")
	visit := service.VisitFromRequest(c.Request)

	mapping, err := h.resolver.Resolve(c.Request.Context(), code, visit)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "链接不存在"})
		case errors.Is(err, service.ErrDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "链接已被停用"})
		case errors.Is(err, service.ErrExpired):
			c.JSON(http.StatusGone, gin.H{"error": "链接已过期"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "解析短链接失败"})
		}
		return
	}

	c.Redirect(service.RedirectStatus, mapping.OriginalURL)
}

// CreateShortUrlRequest 创建短链接请求体
type CreateShortUrlRequest struct {
	OriginalURL string     `json:"original_url" binding:"required,url" example:"https://github.com/gin-gonic/gin"`
	CustomAlias string     `json:"custom_alias" example:"my-link"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Password    string     `json:"password"`
	Category    string     `json:"category" example:"docs"`
}

// CreateShortUrlResponse 创建短链接响应体
type CreateShortUrlResponse struct {
	Mapping  *model.UrlMapping `json:"mapping"`
	ShortURL string            `json:"short_url" example:"http://localhost:8080/2b"`
}

// CreateShortUrl godoc
// @Summary 创建短链接
// @Description 为一个长 URL 创建短链接，可选自定义别名、过期时间与访问密码
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   request  body   CreateShortUrlRequest  true  "创建参数"
// @Success 201 {object} CreateShortUrlResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 409 {object} gin.H "别名已被占用"
// @Router /api/urls/shorten [post]
func (h *UrlMappingHandler) CreateShortUrl(c *gin.Context) {
	var req CreateShortUrlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	mapping, err := h.mappings.Create(c.Request.Context(), userID, service.CreateMappingInput{
		OriginalURL: req.OriginalURL,
		CustomAlias: req.CustomAlias,
		ExpiresAt:   req.ExpiresAt,
		Password:    req.Password,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, store.ErrAliasTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "自定义别名已被占用"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建短链接失败"})
		return
	}

	c.JSON(http.StatusCreated, CreateShortUrlResponse{
		Mapping:  mapping,
		ShortURL: h.baseURL + "/" + mapping.Code(),
	})
}

// GetUserUrls godoc
// @Summary 我的短链接列表
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {array} model.UrlMapping
// @Router /api/urls/myurls [get]
func (h *UrlMappingHandler) GetUserUrls(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	list, err := h.mappings.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取链接失败"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// SearchUserUrls godoc
// @Summary 检索我的短链接
// @Description 在原始 URL、短码与别名上做不区分大小写的关键字匹配
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param keyword query string true "关键字"
// @Success 200 {array} model.UrlMapping
// @Router /api/urls/search [get]
func (h *UrlMappingHandler) SearchUserUrls(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少关键字"})
		return
	}

	list, err := h.mappings.SearchForUser(c.Request.Context(), userID, keyword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "检索失败"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUrlDetails godoc
// @Summary 短链接详情
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param code path string true "短码或别名"
// @Success 200 {object} model.UrlMapping
// @Failure 403 {object} gin.H "非所有者"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/urls/{code} [get]
func (h *UrlMappingHandler) GetUrlDetails(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	mapping, err := h.mappings.DetailsForOwner(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		h.ownerError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// UpdateUrlRequest 更新请求体，未出现的字段不改动
type UpdateUrlRequest struct {
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       *bool      `json:"is_active"`
	Password       *string    `json:"password"`
	RemovePassword bool       `json:"remove_password"`
	Category       *string    `json:"category"`
}

// UpdateUrl godoc
// @Summary 更新短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param code path string true "短码或别名"
// @Param request body UpdateUrlRequest true "更新参数"
// @Success 200 {object} model.UrlMapping
// @Failure 403 {object} gin.H "非所有者"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/urls/{code} [put]
func (h *UrlMappingHandler) UpdateUrl(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	var req UpdateUrlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	mapping, err := h.mappings.Update(c.Request.Context(), c.Param("code"), userID, service.UpdateMappingInput{
		ExpiresAt:      req.ExpiresAt,
		IsActive:       req.IsActive,
		Password:       req.Password,
		RemovePassword: req.RemovePassword,
		Category:       req.Category,
	})
	if err != nil {
		h.ownerError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// DeleteUrl godoc
// @Summary 删除短链接
// @Description 删除映射并级联删除其全部点击事件
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param code path string true "短码或别名"
// @Success 200 {object} gin.H
// @Failure 403 {object} gin.H "非所有者"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/urls/{code} [delete]
func (h *UrlMappingHandler) DeleteUrl(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	if err := h.mappings.Delete(c.Request.Context(), c.Param("code"), userID); err != nil {
		h.ownerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// GetUrlAnalytics godoc
// @Summary 单条链接的点击事件
// @Description 取一条映射在时间区间内的点击事件投影，区间两端均包含
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Param code path string true "短码或别名"
// @Param startDate query string true "起始时刻（RFC3339）"
// @Param endDate query string true "结束时刻（RFC3339）"
// @Success 200 {array} service.ClickEventView
// @Failure 403 {object} gin.H "非所有者"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/urls/analytics/{code} [get]
func (h *UrlMappingHandler) GetUrlAnalytics(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate 格式错误，需要 RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate 格式错误，需要 RFC3339"})
		return
	}

	events, err := h.analytics.ListEventsForOwner(c.Request.Context(), c.Param("code"), userID, start, end)
	if err != nil {
		h.ownerError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetTotalClicks godoc
// @Summary 按日汇总点击数
// @Description 汇总用户名下全部链接的点击数，没有点击的日期不出现在结果里
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Param startDate query string true "起始日期（YYYY-MM-DD，含当天）"
// @Param endDate query string true "结束日期（YYYY-MM-DD，含当天）"
// @Success 200 {object} map[string]int64
// @Router /api/urls/totalClicks [get]
func (h *UrlMappingHandler) GetTotalClicks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	start, err := time.Parse(service.DateLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate 格式错误，需要 YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(service.DateLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate 格式错误，需要 YYYY-MM-DD"})
		return
	}

	totals, err := h.analytics.TotalsByDateForOwner(c.Request.Context(), userID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "汇总失败"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetStats godoc
// @Summary 平台统计（管理员）
// @Tags Admin
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} gin.H
// @Router /api/stats [get]
func (h *UrlMappingHandler) GetStats(c *gin.Context) {
	var stats struct {
		TotalLinks  int64 `json:"total_links"`
		TotalClicks int64 `json:"total_clicks"`
		ActiveLinks int64 `json:"active_links"`
		TotalEvents int64 `json:"total_events"`
	}
	h.db.Model(&model.UrlMapping{}).Count(&stats.TotalLinks)
	h.db.Model(&model.UrlMapping{}).Select("COALESCE(SUM(click_count), 0)").Scan(&stats.TotalClicks)
	h.db.Model(&model.UrlMapping{}).Where("is_active = ?", true).Count(&stats.ActiveLinks)
	h.db.Model(&model.ClickEvent{}).Count(&stats.TotalEvents)
	c.JSON(http.StatusOK, stats)
}

// ownerError 把所有者路径上的领域错误翻译成状态码
func (h *UrlMappingHandler) ownerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "链接不存在"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "无权访问该链接"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
	}
}
