package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aegis-idp/aegis/internal/application/introspection/dto"
	sharedConfig "github.com/aegis-idp/aegis/internal/shared/config"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

const defaultTimeout = 10 * time.Second

// NativeClient talks to the identity provider's own introspection and
// revocation endpoints over the standard form-encoded wire shape.
type NativeClient struct {
	introspectURL string
	revokeURL     string
	httpClient    *http.Client
	logger        logger.Interface
}

func NewNativeClient(cfg sharedConfig.IntrospectionConfig, log logger.Interface) *NativeClient {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &NativeClient{
		introspectURL: cfg.IntrospectURL,
		revokeURL:     cfg.RevokeURL,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        log.Named("idp_client"),
	}
}

// Introspect posts the token to the provider's introspection endpoint.
func (c *NativeClient) Introspect(ctx context.Context, token, tokenTypeHint string) (*dto.IntrospectionResult, error) {
	if c.introspectURL == "" {
		return nil, fmt.Errorf("introspection endpoint is not configured")
	}

	body, err := c.postForm(ctx, c.introspectURL, token, tokenTypeHint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result dto.IntrospectionResult
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode introspection response: %w", err)
	}
	return &result, nil
}

// Revoke posts the token to the provider's revocation endpoint.
func (c *NativeClient) Revoke(ctx context.Context, token, tokenTypeHint string) error {
	if c.revokeURL == "" {
		return fmt.Errorf("revocation endpoint is not configured")
	}

	body, err := c.postForm(ctx, c.revokeURL, token, tokenTypeHint)
	if err != nil {
		return err
	}
	return body.Close()
}

func (c *NativeClient) postForm(ctx context.Context, endpoint, token, tokenTypeHint string) (io.ReadCloser, error) {
	form := url.Values{"token": {token}}
	if tokenTypeHint != "" {
		form.Set("token_type_hint", tokenTypeHint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
