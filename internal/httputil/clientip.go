// Package httputil has small HTTP request helpers shared by the API layer.
package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the client address for request logging. With trustProxy
// set, the leftmost X-Forwarded-For entry and then X-Real-IP are consulted
// before RemoteAddr; enable it only behind a reverse proxy that sets them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedFor(r); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func forwardedFor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}
