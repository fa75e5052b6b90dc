package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the GreenCity user service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword signs in and wraps the tokens in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	res, err := c.SignIn(ctx, SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return newSession(c, res.AccessToken, res.RefreshToken), nil
}

// AuthenticateWithRefreshToken exchanges a refresh token for a new pair and
// wraps it in a Session. The presented token stops working.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	pair, err := c.UpdateAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, pair.AccessToken, pair.RefreshToken), nil
}

// NewSessionFromTokens creates a Session from tokens obtained elsewhere.
// The session still refreshes when the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return newSession(c, accessToken, refreshToken)
}
