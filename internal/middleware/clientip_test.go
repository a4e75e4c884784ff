package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trust      bool
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "untrusted ignores forwarded for",
			forwarded:  "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "untrusted ignores real ip",
			realIP:     "203.0.113.9",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "trusted single ip",
			trust:      true,
			forwarded:  "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "203.0.113.1",
		},
		{
			name:       "trusted multiple ips use first",
			trust:      true,
			forwarded:  " 203.0.113.1 , 198.51.100.2 ",
			remoteAddr: "198.51.100.10:1234",
			want:       "203.0.113.1",
		},
		{
			name:       "trusted invalid forwarded uses real ip",
			trust:      true,
			forwarded:  "invalid",
			realIP:     "203.0.113.9",
			remoteAddr: "198.51.100.10:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted invalid headers fall back to peer",
			trust:      true,
			forwarded:  "invalid",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "trusted ipv6 forwarded",
			trust:      true,
			forwarded:  "2001:db8::1",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::1",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::2",
		},
		{
			name:       "peer without port",
			remoteAddr: "203.0.113.1",
			want:       "203.0.113.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := resolveClientIP(req, tc.trust); got != tc.want {
				t.Fatalf("resolveClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientAddressStoresResolvedIP(t *testing.T) {
	var got string
	handler := ClientAddress(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.10:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "203.0.113.1" {
		t.Fatalf("ClientIP() = %q, want %q", got, "203.0.113.1")
	}
}

func TestClientIPWithoutMiddlewareUsesPeer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.10:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	if got := ClientIP(req); got != "198.51.100.10" {
		t.Fatalf("ClientIP() = %q, want %q", got, "198.51.100.10")
	}
}
