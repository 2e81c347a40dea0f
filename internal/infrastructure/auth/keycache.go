package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/aegis-idp/aegis/internal/shared/logger"
)

const (
	// DefaultKeyRefreshInterval bounds the staleness of the cached key
	// set during key rotation.
	DefaultKeyRefreshInterval = 30 * time.Minute
	// DefaultFetchTimeout caps a single JWKS round trip so verification
	// never hangs on the discovery endpoint.
	DefaultFetchTimeout = 10 * time.Second
)

// KeyCache is the process-scoped cache of the issuer's signing keys.
// The key set is fetched lazily on first use, refreshed after the
// configured interval, and force-refreshed when a verification hits a
// signature failure (to tolerate key rotation races). Refreshes swap the
// whole set atomically so concurrent readers never observe a partially
// updated set.
type KeyCache struct {
	jwksURL         string
	refreshInterval time.Duration
	httpClient      *http.Client
	logger          logger.Interface

	mu        sync.RWMutex
	keySet    jwk.Set
	lastFetch time.Time
}

func NewKeyCache(jwksURL string, refreshInterval, fetchTimeout time.Duration, log logger.Interface) *KeyCache {
	if refreshInterval <= 0 {
		refreshInterval = DefaultKeyRefreshInterval
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &KeyCache{
		jwksURL:         jwksURL,
		refreshInterval: refreshInterval,
		httpClient:      &http.Client{Timeout: fetchTimeout},
		logger:          log.Named("key_cache"),
	}
}

// Get returns the cached key set, fetching it when absent or older than
// the refresh interval.
func (c *KeyCache) Get(ctx context.Context) (jwk.Set, error) {
	c.mu.RLock()
	keySet := c.keySet
	fresh := keySet != nil && time.Since(c.lastFetch) < c.refreshInterval
	c.mu.RUnlock()

	if fresh {
		return keySet, nil
	}

	refreshed, err := c.ForceRefresh(ctx)
	if err != nil {
		// a stale set beats no set while the endpoint is unreachable
		if keySet != nil {
			c.logger.Warnw("JWKS refresh failed, serving stale key set", "error", err)
			return keySet, nil
		}
		return nil, err
	}
	return refreshed, nil
}

// ForceRefresh fetches the key set unconditionally and swaps it in.
// Safe to call concurrently: each fetch produces a complete set and the
// swap is done under lock.
func (c *KeyCache) ForceRefresh(ctx context.Context) (jwk.Set, error) {
	keySet, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keySet = keySet
	c.lastFetch = time.Now()
	c.mu.Unlock()

	c.logger.Debugw("signing key set refreshed", "keys", keySet.Len())
	return keySet, nil
}

// LastFetch returns when the current set was fetched; zero before the
// first successful fetch.
func (c *KeyCache) LastFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}

func (c *KeyCache) fetch(ctx context.Context) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS response: %w", err)
	}

	keySet, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS document: %w", err)
	}
	return keySet, nil
}
