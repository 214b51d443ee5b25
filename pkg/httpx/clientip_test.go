package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseProxyTrust(t *testing.T) {
	trust, err := httpx.ParseProxyTrust([]string{"10.0.0.0/8", " 192.168.1.1 ", "", "::1"})
	require.NoError(t, err)

	require.True(t, trust.Trusts("10.2.3.4"))
	require.True(t, trust.Trusts("192.168.1.1"))
	require.True(t, trust.Trusts("::ffff:192.168.1.1"))
	require.True(t, trust.Trusts("::1"))
	require.False(t, trust.Trusts("192.168.1.2"))
	require.False(t, trust.Trusts("not-an-ip"))

	_, err = httpx.ParseProxyTrust([]string{"10.0.0.0/33"})
	require.Error(t, err)
	_, err = httpx.ParseProxyTrust([]string{"proxy.internal"})
	require.Error(t, err)
}

func TestClientAddress(t *testing.T) {
	trust, err := httpx.ParseProxyTrust([]string{"192.168.1.0/24"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		trust   httpx.ProxyTrust
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:   "socket peer without headers",
			trust:  trust,
			remote: "203.0.113.9:4000",
			want:   "203.0.113.9",
		},
		{
			name:    "forwarding headers ignored without trusted proxies",
			remote:  "203.0.113.9:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1", "X-Real-IP": "198.51.100.2"},
			want:    "203.0.113.9",
		},
		{
			name:    "forwarding headers ignored from an untrusted peer",
			trust:   trust,
			remote:  "203.0.113.9:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "first untrusted hop from the right",
			trust:   trust,
			remote:  "192.168.1.1:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 203.0.113.1, 192.168.1.5"},
			want:    "203.0.113.1",
		},
		{
			name:    "garbage hop stops the walk",
			trust:   trust,
			remote:  "192.168.1.1:4000",
			headers: map[string]string{"X-Forwarded-For": "unknown, 192.168.1.5"},
			want:    "192.168.1.5",
		},
		{
			name:    "X-Real-IP when X-Forwarded-For is absent",
			trust:   trust,
			remote:  "192.168.1.1:4000",
			headers: map[string]string{"X-Real-IP": "203.0.113.2"},
			want:    "203.0.113.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := httpx.ClientAddress(tt.trust)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = httpx.ClientIP(r)
				require.Equal(t, got, httpx.IPKeyExtractor(r))
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("without the middleware the socket peer is used", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})
}
