package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// jsonBody marshals v for a request body. A nil v means no body.
func jsonBody(v any) (io.Reader, map[string]string, error) {
	if v == nil {
		return nil, nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(b), map[string]string{"Content-Type": "application/json"}, nil
}

// doRequest performs an unauthenticated request. token, when set, is sent
// as a bearer token.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path, token string,
	payload any,
) (*http.Response, error) {
	body, headers, err := jsonBody(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// doAuthRequest performs an authenticated request using the session's
// access token, refreshing it first when it is about to expire.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.doRequest(ctx, method, path, token, payload)
}

// decodeJSON decodes a JSON response into target.
// Returns an *APIError if the status is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if err := parseErrorResponse(resp, bodyBytes); err != nil {
			return err
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatus returns a typed error if the response status is not expected.
func checkStatus(resp *http.Response, expected int) error {
	return decodeJSON(resp, nil, expected)
}

// call sends a request and decodes a 200 answer into a new T.
func call[T any](ctx context.Context, c *SDKClient, method, path, token string, payload any) (*T, error) {
	resp, err := c.doRequest(ctx, method, path, token, payload)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := decodeJSON(resp, out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// authCall is call with the session's access token.
func authCall[T any](ctx context.Context, s *Session, method, path string, payload any) (*T, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return call[T](ctx, s.client, method, path, token, payload)
}
