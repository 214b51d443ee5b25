package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": testSecret,
	}))
	require.NoError(t, err)

	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Zero(t, cfg.MaxSessions)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "identity.db", cfg.DatabaseFile)
	require.Empty(t, cfg.Admin.Username)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":               testSecret,
		"ACCESS_TOKEN_TTL":         "5m",
		"REFRESH_TOKEN_TTL":        "24h",
		"MAX_SESSIONS_PER_ACCOUNT": "3",
		"ADMIN_USERNAME":           "root",
		"TRUSTED_PROXIES":          "10.0.0.0/8,192.168.1.1",
	}))
	require.NoError(t, err)

	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 3, cfg.MaxSessions)
	require.Equal(t, "root", cfg.Admin.Username)
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)

	trust, err := cfg.ProxyTrust()
	require.NoError(t, err)
	require.True(t, trust.Trusts("10.1.2.3"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing secret",
			env:  map[string]string{},
			want: "JWT_SECRET",
		},
		{
			name: "short secret",
			env:  map[string]string{"JWT_SECRET": "short"},
			want: "JWT_SECRET",
		},
		{
			name: "refresh not longer than access",
			env:  map[string]string{"JWT_SECRET": testSecret, "ACCESS_TOKEN_TTL": "1h", "REFRESH_TOKEN_TTL": "1h"},
			want: "REFRESH_TOKEN_TTL",
		},
		{
			name: "negative session cap",
			env:  map[string]string{"JWT_SECRET": testSecret, "MAX_SESSIONS_PER_ACCOUNT": "-1"},
			want: "MAX_SESSIONS_PER_ACCOUNT",
		},
		{
			name: "port out of range",
			env:  map[string]string{"JWT_SECRET": testSecret, "PORT": "70000"},
			want: "PORT",
		},
		{
			name: "malformed trusted proxy",
			env:  map[string]string{"JWT_SECRET": testSecret, "TRUSTED_PROXIES": "proxy.internal"},
			want: "TRUSTED_PROXIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}
