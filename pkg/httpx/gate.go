package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// AccountResolver maps a token subject to the internal account id, failing
// when the account no longer exists or may not sign in.
type AccountResolver interface {
	ResolveActive(ctx context.Context, publicID string) (accountID string, err error)
}

// Gate authenticates requests carrying a bearer access token. It never
// rejects a request itself: a missing, invalid or expired token, or a token
// whose account has since been disabled, simply leaves the request anonymous
// and the routes decide whether that is acceptable.
func Gate(v jwtx.Verifier, accounts AccountResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			accountID, err := accounts.ResolveActive(ctx, claims.Subject)
			if err != nil {
				log.Info("bearer token for inactive account", "sub", claims.Subject, "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithPrincipal(ctx, Principal{
				AccountID: accountID,
				PublicID:  claims.Subject,
				Username:  claims.Username,
				Roles:     claims.Roles,
				SessionID: claims.SID,
			})
			ctx = slogx.With(ctx, "account_id", accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				writeBearerError(w, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole the caller must be authenticated and hold at least one of
// the provided roles.
func RequireAnyRole(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeBearerError(w, "authentication required")
				return
			}
			if !p.HasAnyRole(required...) {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "Access denied", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken pulls the credential out of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "bearer "

	authz := r.Header.Get("Authorization")
	if len(authz) <= len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(authz[len(prefix):])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
}
