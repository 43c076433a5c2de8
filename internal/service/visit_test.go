package service

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/abc", nil)
	req.RemoteAddr = "192.0.2.1:51234"
	req.Header.Set("User-Agent", "curl/8.4.0")
	req.Header.Set("Referer", "https://example.com")

	visit := VisitFromRequest(req)
	assert.Equal(t, "192.0.2.1", visit.IP, "无转发头时取对端地址")
	assert.Equal(t, "curl/8.4.0", visit.UserAgent)
	assert.Equal(t, "https://example.com", visit.Referer)
}

func TestVisitPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/abc", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2, 10.0.0.3")

	visit := VisitFromRequest(req)
	assert.Equal(t, "203.0.113.7", visit.IP, "取转发链里的第一个地址")
}
