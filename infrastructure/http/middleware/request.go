package middleware

import (
	"net/http"
	"strings"

	"github.com/fundbridge/fundbridge/domain"
)

// ClientIP extracts the origin address of a request, preferring proxy
// headers over the raw remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// RequestMeta builds the audit request metadata for a request.
func RequestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		IPAddress: ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
