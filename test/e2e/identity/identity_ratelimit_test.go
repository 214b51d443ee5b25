package identity_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLogin verifies the strict limit (5 req/min per address and
// identifier) on the login endpoint.
func TestRateLimitLogin(t *testing.T) {
	client := setupIdentityContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	var lastErr error
	for i := range 6 {
		_, err := client.Login(ctx, "nobody", "Wrong1234")
		if i < 5 {
			require.ErrorIs(t, err, identitysdk.ErrInvalidCredentials, "request %d should not be rate limited", i+1)
			continue
		}
		lastErr = err
	}

	var apiErr *identitysdk.APIError
	require.True(t, errors.As(lastErr, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, identitysdk.ErrorCodeRateLimited, apiErr.Code)

	// A different identifier from the same address has its own bucket.
	_, err := client.Login(ctx, "somebody-else", "Wrong1234")
	require.ErrorIs(t, err, identitysdk.ErrInvalidCredentials)
}
