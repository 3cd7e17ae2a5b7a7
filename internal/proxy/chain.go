// Package proxy fetches raw text from target URLs through a prioritized
// chain of relay intermediaries. Tiers are tried strictly in order, one at
// a time: a lower-priority tier must never race ahead of a higher one, and
// concurrent probing would waste relay quota. Any tier failure is recovered
// by advancing to the next tier; only total exhaustion surfaces an error.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
)

// Tier categorizes which intermediary served a fetch, for user-facing
// trust-level feedback (unauthenticated public relays degrade reliability
// and privacy).
type Tier string

const (
	TierAuthenticated Tier = "authenticated"
	TierCustom        Tier = "custom"
	TierPublic        Tier = "public"
	TierNone          Tier = "none"
)

// Status is delivered to subscribers after every fetch attempt resolves.
type Status struct {
	Tier   Tier
	Target string
}

// Default relay endpoints. The worker default is only used when a worker
// key is configured without an explicit URL.
const (
	DefaultWorkerURL  = "https://mediakeeper-relay.workers.dev"
	DefaultPublicURL1 = "https://api.allorigins.win/raw?url="
	DefaultPublicURL2 = "https://corsproxy.io/?"
)

// connectionTestTarget is a stable, low-risk page used by TestConnection.
const connectionTestTarget = "https://example.com/"

// Response bodies that indicate a relay refused or mangled the request even
// though it answered 200.
var failureMarkers = []string{"Access Denied", "Proxy Error", "403 Forbidden"}

const maxBodySize = 10 << 20 // 10 MiB

// Chain tries intermediaries in a fixed priority order:
//
//  1. authenticated worker (only when a key is held in memory)
//  2. custom/homelab proxy (only when a URL is configured)
//  3. public relay 1
//  4. public relay 2
//
// The worker credential is passed as a query parameter rather than a header
// so the request stays within "simple request" rules and avoids a CORS
// pre-flight many lightweight edge workers mishandle.
type Chain struct {
	client *http.Client
	logger logging.Logger

	workerURL string
	workerKey string
	customURL string
	public1   string
	public2   string

	subscribers []func(Status)
}

// NewChain returns a Chain with default public relays and the given HTTP
// timeout. Worker and custom tiers stay disabled until configured.
func NewChain(timeout time.Duration, logger logging.Logger) *Chain {
	return &Chain{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		public1: DefaultPublicURL1,
		public2: DefaultPublicURL2,
	}
}

// SetWorker configures the authenticated worker tier. An empty key disables
// the tier; an empty URL falls back to DefaultWorkerURL.
func (c *Chain) SetWorker(workerURL, key string) {
	if workerURL == "" {
		workerURL = DefaultWorkerURL
	}
	c.workerURL = workerURL
	c.workerKey = key
}

// SetCustomProxy configures the custom proxy tier. Empty disables it.
func (c *Chain) SetCustomProxy(proxyURL string) {
	c.customURL = proxyURL
}

// SetPublicProxies overrides the default public relays. Empty strings keep
// the defaults.
func (c *Chain) SetPublicProxies(url1, url2 string) {
	if url1 != "" {
		c.public1 = url1
	}
	if url2 != "" {
		c.public2 = url2
	}
}

// OnStatus registers a subscriber notified with the winning tier (or
// TierNone) after each FetchText call.
func (c *Chain) OnStatus(fn func(Status)) {
	c.subscribers = append(c.subscribers, fn)
}

type tier struct {
	name       string
	category   Tier
	requestURL string
}

func (c *Chain) tiers(target string) []tier {
	escaped := url.QueryEscape(target)

	var ts []tier
	if c.workerKey != "" {
		ts = append(ts, tier{
			name:       "worker",
			category:   TierAuthenticated,
			requestURL: fmt.Sprintf("%s?url=%s&key=%s", c.workerURL, escaped, url.QueryEscape(c.workerKey)),
		})
	}
	if c.customURL != "" {
		ts = append(ts, tier{name: "custom", category: TierCustom, requestURL: c.customURL + escaped})
	}
	ts = append(ts,
		tier{name: "public-1", category: TierPublic, requestURL: c.public1 + escaped},
		tier{name: "public-2", category: TierPublic, requestURL: c.public2 + escaped},
	)
	return ts
}

// FetchText retrieves the target URL's body as text via the first tier that
// returns valid content, reporting which tier category succeeded. When every
// configured and default tier fails, it returns common.ErrAllProxiesFailed
// wrapping the last underlying error.
func (c *Chain) FetchText(ctx context.Context, target string) (string, Tier, error) {
	var lastErr error

	for _, t := range c.tiers(target) {
		c.logger.Debug(ctx, "trying proxy tier", "tier", t.name, "target", target)
		body, err := c.attempt(ctx, t.requestURL)
		if err != nil {
			c.logger.Warn(ctx, "proxy tier failed, trying next", "tier", t.name, "target", target, "error", err)
			lastErr = err
			continue
		}

		c.notify(Status{Tier: t.category, Target: target})
		return body, t.category, nil
	}

	c.notify(Status{Tier: TierNone, Target: target})
	if lastErr == nil {
		return "", TierNone, common.ErrAllProxiesFailed
	}
	return "", TierNone, fmt.Errorf("%w: %w", common.ErrAllProxiesFailed, lastErr)
}

// attempt performs one GET with no custom headers, no cookies, and
// validates the response body.
func (c *Chain) attempt(ctx context.Context, requestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	body := string(raw)
	if err := validateBody(body); err != nil {
		return "", err
	}
	return body, nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("empty response body")
	}
	for _, marker := range failureMarkers {
		if strings.Contains(body, marker) {
			return fmt.Errorf("response contains failure marker %q", marker)
		}
	}
	return nil
}

func (c *Chain) notify(s Status) {
	for _, fn := range c.subscribers {
		fn(s)
	}
}

// TestConnection validates a worker configuration against a stable external
// target, independently of the chain state. Outcomes map to distinct,
// actionable errors:
//
//   - 401/403 (or an access-denied body): common.ErrProxyUnauthorized
//   - 5xx: common.ErrProxyServerFailure
//   - transport failure: common.ErrProxyUnreachable
func (c *Chain) TestConnection(ctx context.Context, workerURL, key string) error {
	if workerURL == "" {
		workerURL = DefaultWorkerURL
	}
	requestURL := fmt.Sprintf("%s?url=%s&key=%s",
		workerURL, url.QueryEscape(connectionTestTarget), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrProxyUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", common.ErrProxyUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", common.ErrProxyServerFailure, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrProxyUnreachable, err)
	}
	if err := validateBody(string(raw)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrProxyUnauthorized, err)
	}
	return nil
}
