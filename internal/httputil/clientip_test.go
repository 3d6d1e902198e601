package httputil

import (
	"net/http"
	"testing"
)

func request(remoteAddr, xff, xri string) *http.Request {
	r := &http.Request{RemoteAddr: remoteAddr, Header: http.Header{}}
	if xff != "" {
		r.Header.Set("X-Forwarded-For", xff)
	}
	if xri != "" {
		r.Header.Set("X-Real-IP", xri)
	}
	return r
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		trustProxy bool
		want       string
	}{
		{"plain remote addr", "192.168.1.1:12345", "", "", false, "192.168.1.1"},
		{"ipv6 remote addr", "[::1]:12345", "", "", false, "::1"},
		{"remote addr without port", "192.168.1.1", "", "", false, "192.168.1.1"},
		{"xff single", "10.0.0.1:1234", "1.2.3.4", "", true, "1.2.3.4"},
		{"xff chain takes first", "10.0.0.3:1234", "1.2.3.4, 10.0.0.1, 10.0.0.2", "", true, "1.2.3.4"},
		{"x-real-ip fallback", "10.0.0.1:1234", "", "5.6.7.8", true, "5.6.7.8"},
		{"xff beats x-real-ip", "10.0.0.1:1234", "1.2.3.4", "5.6.7.8", true, "1.2.3.4"},
		{"trusted but no headers", "10.0.0.1:1234", "", "", true, "10.0.0.1"},
		{"headers ignored when untrusted", "10.0.0.1:1234", "1.2.3.4", "5.6.7.8", false, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientIP(request(tt.remoteAddr, tt.xff, tt.xri), tt.trustProxy)
			if got != tt.want {
				t.Errorf("ClientIP(trustProxy=%v) = %q, want %q", tt.trustProxy, got, tt.want)
			}
		})
	}
}
