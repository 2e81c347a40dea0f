package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the authorization API client.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new authorization API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://authz.example.com")
//   - clientID: The registered client identifier
//   - clientSecret: The registered client secret
func NewClient(baseURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryPermissions retrieves the effective permissions of the token holder.
func (c *Client) QueryPermissions(ctx context.Context, req QueryRequest) (*PermissionSet, error) {
	body := map[string]any{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
		"accessToken":  req.AccessToken,
	}
	if req.IDToken != "" {
		body["idToken"] = req.IDToken
	}
	if req.SystemID != "" {
		body["systemId"] = req.SystemID
	}

	var result PermissionSet
	if err := c.postJSON(ctx, "/connect/permissions/query", body, &result); err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	return &result, nil
}

// CheckPermission asks whether the token holder has the requested
// scopes on one resource. A denial is a normal result, not an error.
func (c *Client) CheckPermission(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	body := map[string]any{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
		"accessToken":  req.AccessToken,
		"resource":     req.Resource,
		"scopes":       req.Scopes,
	}
	if req.IDToken != "" {
		body["idToken"] = req.IDToken
	}

	var result CheckResult
	if err := c.postJSON(ctx, "/connect/permissions/check", body, &result); err != nil {
		return nil, fmt.Errorf("check permission: %w", err)
	}
	return &result, nil
}

// Introspect returns the revocation-aware verdict for a token.
func (c *Client) Introspect(ctx context.Context, token, tokenTypeHint string) (*Introspection, error) {
	form := url.Values{"token": {token}}
	if tokenTypeHint != "" {
		form.Set("token_type_hint", tokenTypeHint)
	}

	var result Introspection
	if err := c.postForm(ctx, "/connect/introspect", form, &result); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return &result, nil
}

// Revoke revokes a token. Revoking an already-revoked or unknown token
// succeeds.
func (c *Client) Revoke(ctx context.Context, token, tokenTypeHint string) error {
	form := url.Values{"token": {token}}
	if tokenTypeHint != "" {
		form.Set("token_type_hint", tokenTypeHint)
	}

	if err := c.postForm(ctx, "/connect/revocation", form, nil); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "unknown_error"
			apiErr.Description = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
