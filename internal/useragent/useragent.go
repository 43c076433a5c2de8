// Package useragent 从 User-Agent 字符串推导设备、浏览器与操作系统分类
//
// 分类规则是固定的子串匹配，按优先级依次判断。
// 注意浏览器匹配区分大小写：Chrome 的 UA 同时含有 "Safari"，
// 所以 Chrome 必须先于 Safari 判断。
package useragent

import "strings"

// Unknown 是 User-Agent 缺失时三项分类的统一取值
const Unknown = "unknown"

// DeviceType 推导设备类型：mobile / tablet / desktop
// 此项匹配不区分大小写
func DeviceType(ua string) string {
	if ua == "" {
		return Unknown
	}
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "mobile"):
		return "mobile"
	case strings.Contains(lower, "tablet"):
		return "tablet"
	default:
		return "desktop"
	}
}

// Browser 推导浏览器家族，按优先级区分大小写匹配
func Browser(ua string) string {
	if ua == "" {
		return Unknown
	}
	switch {
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// OS 推导操作系统家族，按优先级区分大小写匹配
func OS(ua string) string {
	if ua == "" {
		return Unknown
	}
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "MacOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		return "iOS"
	default:
		return "Other"
	}
}
