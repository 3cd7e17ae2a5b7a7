// Package cli implements the interactive MediaKeeper shell: a REPL over the
// local vault, the secret store, the proxy chain and the feed cache.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/config"
	"github.com/dmitrijs2005/mediakeeper/internal/feed"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/platform"
	"github.com/dmitrijs2005/mediakeeper/internal/proxy"
	"github.com/dmitrijs2005/mediakeeper/internal/secrets"
	"github.com/dmitrijs2005/mediakeeper/internal/storage"
)

// Plaintext settings keys (secret slots live under the secret. prefix,
// handled by the secrets package).
const (
	settingCustomProxyURL = "custom_proxy_url"
	settingWorkerURL      = "worker_url"
	settingPublicProxy1   = "public_proxy_1"
	settingPublicProxy2   = "public_proxy_2"
	settingCacheTTLHours  = "cache_ttl_hours"
)

// App wires the vault components together and drives the REPL.
type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *storage.Repositories
	session *auth.Session
	store   *secrets.Store
	chain   *proxy.Chain
	youtube *platform.YouTubeFetcher
	vimeo   *platform.VimeoFetcher
	daily   *platform.DailymotionFetcher
	cache   *feed.Cache
	reader  *bufio.Reader
}

// NewApp opens the vault database and constructs all services in their
// unauthenticated state.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	session := auth.NewSession(repos.Users, logger)
	store := secrets.NewStore(repos.Settings, logger)
	session.OnLogout(store.Clear)

	chain := proxy.NewChain(c.HTTPTimeout, logger)
	httpClient := &http.Client{Timeout: c.HTTPTimeout}

	registry := platform.NewRegistry()
	youtube := platform.NewYouTubeFetcher(httpClient, chain, logger)
	vimeo := platform.NewVimeoFetcher(httpClient, logger)
	daily := platform.NewDailymotionFetcher(httpClient, logger)
	registry.Register(models.PlatformYouTube, youtube)
	registry.Register(models.PlatformVimeo, vimeo)
	registry.Register(models.PlatformDailymotion, daily)

	cache := feed.NewCache(repos.FeedCache, registry, logger)

	app := &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		session: session,
		store:   store,
		chain:   chain,
		youtube: youtube,
		vimeo:   vimeo,
		daily:   daily,
		cache:   cache,
		reader:  bufio.NewReader(os.Stdin),
	}

	chain.OnStatus(app.reportProxyStatus)
	return app, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.session.Logout(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// applySecrets pushes decrypted credentials and persisted proxy settings
// into the fetchers and the chain after a successful login. Fetchers never
// reach into the store themselves.
func (a *App) applySecrets(ctx context.Context) {
	if key, ok := a.store.Get(secrets.SlotYouTubeAPIKey); ok {
		a.youtube.SetAPIKey(key)
	}
	if token, ok := a.store.Get(secrets.SlotVimeoToken); ok {
		a.vimeo.SetToken(token)
	}
	if token, ok := a.store.Get(secrets.SlotDailymotionToken); ok {
		a.daily.SetToken(token)
	}

	workerURL, _ := a.repos.Settings.Get(ctx, settingWorkerURL)
	if key, ok := a.store.Get(secrets.SlotProxyWorkerKey); ok {
		a.chain.SetWorker(workerURL, key)
	}
	if customURL, err := a.repos.Settings.Get(ctx, settingCustomProxyURL); err == nil {
		a.chain.SetCustomProxy(customURL)
	}
	p1, _ := a.repos.Settings.Get(ctx, settingPublicProxy1)
	p2, _ := a.repos.Settings.Get(ctx, settingPublicProxy2)
	a.chain.SetPublicProxies(p1, p2)

	a.cache.SetTTL(a.config.CacheTTL)
	if raw, err := a.repos.Settings.Get(ctx, settingCacheTTLHours); err == nil {
		if hours, err := strconv.Atoi(raw); err == nil {
			a.cache.SetTTL(time.Duration(hours) * time.Hour)
		}
	}
}

// reportProxyStatus surfaces trust-level feedback after proxy fetches.
func (a *App) reportProxyStatus(s proxy.Status) {
	switch s.Tier {
	case proxy.TierPublic:
		fmt.Println("note: fetched via an unauthenticated public relay; reliability and privacy are degraded")
	case proxy.TierNone:
		fmt.Println("warning: every proxy tier failed for", s.Target)
	}
}

// friendlyError maps sentinel errors to actionable messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, common.ErrDuplicateUser):
		return "a user with this name is already registered"
	case errors.Is(err, common.ErrUserNotFound):
		return "no such user in this vault"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "wrong username or password"
	case errors.Is(err, common.ErrProxyUnauthorized):
		return "the worker rejected the key: check the proxy worker key"
	case errors.Is(err, common.ErrProxyServerFailure):
		return "the worker itself is failing: check its deployment logs"
	case errors.Is(err, common.ErrProxyUnreachable):
		return "could not reach the worker: check the URL and your network"
	case errors.Is(err, common.ErrAllProxiesFailed):
		return "all proxy tiers failed: " + err.Error()
	default:
		return err.Error()
	}
}
