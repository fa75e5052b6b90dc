/*
Package authsdk provides a client SDK for the GreenCity user service.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: public endpoints (sign-up, sign-in, token refresh, password
    restore, health, JWKS) and the creation of sessions
  - Session: calls that need an access token, with automatic refresh

	client := authsdk.NewSDKClient("https://users.example.com")

	// Register and confirm an address
	res, err := client.SignUp(ctx, authsdk.SignUpRequest{
		Name:     "Olena",
		Email:    "olena@example.com",
		Password: "Secret123!",
	}, "ua")
	err = client.VerifyEmail(ctx, res.UserID, tokenFromEmail)

	// Sign in
	session, err := client.AuthenticateWithPassword(ctx, "olena@example.com", "Secret123!")

	me, err := session.GetCurrentUser(ctx)

# Refresh tokens are single use

Every successful GET /ownSecurity/updateAccessToken rotates the user's
refresh token key, so the refresh token it was called with stops working.
Sessions serialize refreshes behind a mutex and always keep the newest
pair. Code that shares a refresh token between processes will see
BadRefreshToken errors on all but the first refresh.

# Automatic Token Refresh

Session reads the access token's exp claim (without verifying it) and
refreshes 30 seconds before expiry. Call Session.Refresh to rotate early.

# Error Handling

Every non-success response becomes an *APIError:

	_, err := client.SignIn(ctx, req)
	switch {
	case authsdk.IsName(err, authsdk.ErrorNameWrongPassword):
		// bad credentials
	case authsdk.IsName(err, authsdk.ErrorNameEmailNotVerified):
		// ask the user to check their inbox
	case authsdk.StatusCode(err) == http.StatusTooManyRequests:
		// back off
	}

Validation failures carry per-field messages in APIError.Fields.

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
