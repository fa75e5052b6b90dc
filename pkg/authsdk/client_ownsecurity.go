package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Public own-security endpoints. None of these need a token.

// SignUp registers a user. lang selects the language of the verification
// email ("en" or "ua").
func (c *SDKClient) SignUp(ctx context.Context, req SignUpRequest, lang string) (*SuccessSignUp, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, withQuery("/ownSecurity/signUp", url.Values{"lang": {lang}}), "", req)
	if err != nil {
		return nil, err
	}

	var out SuccessSignUp
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges an email and password for a token pair.
func (c *SDKClient) SignIn(ctx context.Context, req SignInRequest) (*SuccessSignIn, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/ownSecurity/signIn", "", req)
	if err != nil {
		return nil, err
	}

	var out SuccessSignIn
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccessToken rotates a refresh token. The presented token is burned
// whether or not the call succeeds.
func (c *SDKClient) UpdateAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	path := withQuery("/ownSecurity/updateAccessToken", url.Values{"refreshToken": {refreshToken}})
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var out TokenPair
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms the address of userID with the token from the
// verification email.
func (c *SDKClient) VerifyEmail(ctx context.Context, userID int64, token string) error {
	path := withQuery("/ownSecurity/verifyEmail", url.Values{
		"token":   {token},
		"user_id": {strconv.FormatInt(userID, 10)},
	})
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}

	var ok bool
	return decodeJSON(resp, &ok, http.StatusOK)
}

// RestorePassword mails a password restore link to email.
func (c *SDKClient) RestorePassword(ctx context.Context, email, lang string, ubs bool) error {
	path := withQuery("/ownSecurity/restorePassword", url.Values{
		"email": {email},
		"lang":  {lang},
		"ubs":   {strconv.FormatBool(ubs)},
	})
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// UpdatePasswordByToken sets a new password using a restore link token.
func (c *SDKClient) UpdatePasswordByToken(ctx context.Context, req RestorePasswordRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/ownSecurity/updatePassword", "", req)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// ActivatedUsersAmount returns the number of ACTIVATED users.
func (c *SDKClient) ActivatedUsersAmount(ctx context.Context) (int64, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/user/activatedUsersAmount", "", nil)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := decodeJSON(resp, &n, http.StatusOK); err != nil {
		return 0, err
	}
	return n, nil
}

// withQuery appends the non-empty values of q to path.
func withQuery(path string, q url.Values) string {
	clean := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return path
	}
	return path + "?" + clean.Encode()
}
