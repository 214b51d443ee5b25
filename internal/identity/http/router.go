package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles applied per route class.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Limits Limits

	// Proxies whose X-Forwarded-For is believed. The zero value trusts none.
	Proxies httpx.ProxyTrust

	AuthService    *service.AuthService
	AccountService *service.AccountService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	auth *service.AuthService,
	accounts *service.AccountService,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits: Limits{
			Strict:   httpx.StrictLimit,
			Moderate: httpx.ModerateLimit,
			Lenient:  httpx.LenientLimit,
		},
		AuthService:    auth,
		AccountService: accounts,
	}

	return r
}

// ApplyRoutes registers every route and fixes the global middleware chain,
// so Limits and Proxies must be set before it is called.
func (r *Router) ApplyRoutes() {
	// The gate needs the request logger, so it runs inside the logging
	// middleware; both see the resolved client address.
	r.middlewares = []httpx.Middleware{
		httpx.ClientAddress(r.Proxies),
		slogx.HTTPMiddleware(r.logger),
		httpx.Gate(r.verifier, r.AccountService),
	}

	r.registerAuth()
	r.registerAccount()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Identity Service API
//	@version		0.1.0
//	@description	Account registration, sign-in and session management.
//	@description
//	@description				Access tokens are HS256 JWTs sent as "Authorization: Bearer {token}". Refresh tokens are opaque and single use.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/identity
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential checks: strict, and login is keyed on the identifier too so
	// one address cannot spray a single account.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "usernameOrEmail"),
		),
	)
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)

	r.Mux.Handle("POST /api/auth/logout-all",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutAll),
			httpx.RequireIdentity(),
			httpx.RateLimitByPrincipal(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/auth/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.RequireIdentity(),
			httpx.RateLimitByPrincipal(r.Limits.Strict),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	r.Mux.Handle("GET /api/auth/check-username",
		httpx.Chain(http.HandlerFunc(h.HandleCheckUsername),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /api/auth/check-email",
		httpx.Chain(http.HandlerFunc(h.HandleCheckEmail),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)

	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RequireIdentity(),
			httpx.RateLimitByPrincipal(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /api/auth/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleListSessions),
			httpx.RequireIdentity(),
			httpx.RateLimitByPrincipal(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("DELETE /api/auth/sessions/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleRevokeSession),
			httpx.RequireIdentity(),
			httpx.RateLimitByPrincipal(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AccountHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /api/admin/accounts/{publicId}/status",
		httpx.Chain(http.HandlerFunc(h.HandleSetStatus),
			httpx.RequireAnyRole(string(domain.RoleAdmin)),
			httpx.RateLimitByPrincipal(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("PUT /api/admin/accounts/{publicId}/role",
		httpx.Chain(http.HandlerFunc(h.HandleSetRole),
			httpx.RequireAnyRole(string(domain.RoleAdmin)),
			httpx.RateLimitByPrincipal(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
