package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "untrusted peer keeps socket address",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.9:5555",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "203.0.113.9:5555",
		},
		{
			name:       "trusted proxy X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
		{
			name:       "trusted bare IP uses first forwarded hop",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.8, 10.0.0.2"},
			want:       "198.51.100.8",
		},
		{
			name:       "garbage header ignored",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "127.0.0.1:9000",
		},
		{
			name:       "no trusted proxies configured",
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "127.0.0.1:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedNets_SkipsInvalid(t *testing.T) {
	nets := parseTrustedNets([]string{"10.0.0.0/8", " ", "nonsense", "::1"})
	if len(nets) != 2 {
		t.Fatalf("parseTrustedNets() returned %d nets, want 2", len(nets))
	}
	if !isTrusted(extractIP("[::1]:80"), nets) {
		t.Error("::1 should be trusted")
	}
}
