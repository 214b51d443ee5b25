package identitysdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

// fakeServer issues numbered refresh tokens and only honours the latest one.
type fakeServer struct {
	issued  atomic.Int32
	current atomic.Value
}

func (f *fakeServer) envelope(expiresIn int64) identitysdk.AuthResponse {
	n := f.issued.Add(1)
	refresh := "refresh-" + string(rune('0'+n))
	f.current.Store(refresh)
	return identitysdk.AuthResponse{
		AccessToken:  "access-" + string(rune('0'+n)),
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
		User:         identitysdk.UserResponse{UUID: "u-1", Username: "alice"},
	}
}

func (f *fakeServer) handler(t *testing.T, expiresIn int64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req identitysdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Str0ngPass1" {
			identitysdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, f.envelope(expiresIn))
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req identitysdk.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != f.current.Load() {
			identitysdk.ErrInvalidRefreshToken.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, f.envelope(expiresIn))
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			identitysdk.ErrUnauthorized.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, identitysdk.UserResponse{UUID: "u-1", Username: "alice"})
	})
	mux.HandleFunc("GET /api/auth/check-username", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, identitysdk.AvailabilityResponse{
			Available: r.URL.Query().Get("username") != "alice",
		})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		identitysdk.ErrValidationFailed.WithDetails(map[string]string{
			"password": "must contain an uppercase letter",
		}).WriteError(w)
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})
	return mux
}

func TestLogin(t *testing.T) {
	f := &fakeServer{}
	srv := httptest.NewServer(f.handler(t, 900))
	defer srv.Close()
	client := identitysdk.NewClient(srv.URL + "/")

	t.Run("bad password is a typed error", func(t *testing.T) {
		_, err := client.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, identitysdk.ErrInvalidCredentials)

		var apiErr *identitysdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "Invalid credentials", apiErr.Message)
	})

	t.Run("session calls authenticated endpoints", func(t *testing.T) {
		session, err := client.AuthenticateWithPassword(context.Background(), "alice", "Str0ngPass1")
		require.NoError(t, err)
		require.Equal(t, "alice", session.User().Username)

		me, err := session.Me(context.Background())
		require.NoError(t, err)
		require.Equal(t, "u-1", me.UUID)
	})
}

func TestSessionRotatesExpiredAccessToken(t *testing.T) {
	f := &fakeServer{}
	// ExpiresIn below the client buffer forces a rotation on every call.
	srv := httptest.NewServer(f.handler(t, 1))
	defer srv.Close()
	client := identitysdk.NewClient(srv.URL)

	session, err := client.AuthenticateWithPassword(context.Background(), "alice", "Str0ngPass1")
	require.NoError(t, err)
	first := session.RefreshToken()

	_, err = session.Me(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, first, session.RefreshToken())

	_, err = client.Refresh(context.Background(), first)
	require.ErrorIs(t, err, identitysdk.ErrInvalidRefreshToken)
}

func TestErrorDecoding(t *testing.T) {
	f := &fakeServer{}
	srv := httptest.NewServer(f.handler(t, 900))
	defer srv.Close()
	client := identitysdk.NewClient(srv.URL)

	t.Run("details survive the round trip", func(t *testing.T) {
		_, err := client.Register(context.Background(), identitysdk.RegisterRequest{Username: "alice"})
		require.ErrorIs(t, err, identitysdk.ErrValidationFailed)

		var apiErr *identitysdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "must contain an uppercase letter", apiErr.Details["password"])
	})

	t.Run("non-JSON body falls back to status", func(t *testing.T) {
		_, err := client.GetLiveness(context.Background())
		var apiErr *identitysdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Equal(t, identitysdk.ErrorCodeInternal, apiErr.Code)
	})

	t.Run("different codes do not match", func(t *testing.T) {
		require.False(t, errors.Is(identitysdk.ErrUsernameTaken, identitysdk.ErrEmailTaken))
	})
}

func TestCheckUsername(t *testing.T) {
	f := &fakeServer{}
	srv := httptest.NewServer(f.handler(t, 900))
	defer srv.Close()
	client := identitysdk.NewClient(srv.URL)

	ok, err := client.CheckUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = client.CheckUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.True(t, ok)
}
