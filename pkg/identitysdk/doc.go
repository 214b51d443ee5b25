/*
Package identitysdk is a Go client for the identity service.

Client covers the unauthenticated endpoints (register, login, refresh,
logout, availability checks and health). Session wraps a token envelope and
rotates the refresh token automatically when the access token is about to
expire:

	client := identitysdk.NewClient("https://id.example.com")

	session, err := client.AuthenticateWithPassword(ctx, "alice", "Str0ngPass1")
	if errors.Is(err, identitysdk.ErrInvalidCredentials) {
		// wrong identifier, wrong password or an account that may not sign in
	}

	me, err := session.Me(ctx)

Refresh tokens are single use. A Session must not be shared with another
process holding the same refresh token: whichever rotates second is signed
out with ErrInvalidRefreshToken.

Every non-2xx response is returned as an *APIError, which matches the
predefined errors by code under errors.Is.
*/
package identitysdk
