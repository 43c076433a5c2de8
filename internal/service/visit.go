package service

import (
	"net"
	"net/http"
	"strings"
)

// Visit 一次重定向访问的请求上下文，供点击事件采集使用
type Visit struct {
	IP        string
	UserAgent string
	Referer   string
}

// VisitFromRequest 从 HTTP 请求提取访问上下文
// 客户端 IP 优先取 X-Forwarded-For 的第一个地址，否则用对端地址
func VisitFromRequest(r *http.Request) *Visit {
	return &Visit{
		IP:        clientIP(r),
		UserAgent: r.Header.Get("User-Agent"),
		Referer:   r.Header.Get("Referer"),
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
