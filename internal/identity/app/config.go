package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Issuer    string `env:"IDENTITY_ISSUER, default=identity"`
	JWTSecret string `env:"JWT_SECRET"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`

	// MaxSessions caps concurrent sessions per account, 0 for unlimited.
	MaxSessions int `env:"MAX_SESSIONS_PER_ACCOUNT, default=0"`

	// RefreshTimeout bounds a refresh token rotation end to end.
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT, default=5s"`

	DatabaseFile string `env:"DATABASE_FILE, default=identity.db"`
	PepperFile   string `env:"PEPPER_FILE, default=pepper"`

	Env       string `env:"ENV, default=dev"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=json"`

	Port                int           `env:"PORT, default=8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD, default=10s"`

	// TrustedProxies lists the CIDRs or addresses allowed to set
	// X-Forwarded-For. Empty means the socket peer is always the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	HousekeepingInterval  time.Duration `env:"HOUSEKEEPING_INTERVAL, default=1h"`
	HousekeepingRetention time.Duration `env:"HOUSEKEEPING_RETENTION, default=168h"`

	Admin AdminConfig
}

// AdminConfig seeds the first administrator on an empty database. A blank
// password is generated and printed once.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run safely with.
func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}
	if c.MaxSessions < 0 {
		errs = append(errs, errors.New("MAX_SESSIONS_PER_ACCOUNT must not be negative"))
	}
	if c.RefreshTimeout < 0 {
		errs = append(errs, errors.New("REFRESH_TIMEOUT must not be negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.HousekeepingRetention < 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_RETENTION must not be negative"))
	}
	if _, err := c.ProxyTrust(); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ProxyTrust parses TrustedProxies.
func (c Config) ProxyTrust() (httpx.ProxyTrust, error) {
	return httpx.ParseProxyTrust(c.TrustedProxies)
}
