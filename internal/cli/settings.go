package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/feed"
	"github.com/dmitrijs2005/mediakeeper/internal/secrets"
)

// setSecret prompts for a credential value (without echo) and saves it
// encrypted under the current session key, then re-applies secrets so the
// new value takes effect immediately.
func (a *App) setSecret(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: secret <slot>")
		fmt.Println("Slots:")
		for _, slot := range secrets.Slots {
			fmt.Println("  " + slot)
		}
		return
	}

	slot := secrets.Slot(args[0])
	known := false
	for _, s := range secrets.Slots {
		if s == slot {
			known = true
			break
		}
	}
	if !known {
		fmt.Println("Unknown slot:", args[0])
		return
	}

	value, err := getPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.store.Save(ctx, a.session.Key(), slot, string(value)); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.applySecrets(ctx)
	fmt.Println("Saved")
}

// setTTL persists a new cache lifetime in whole hours (8/24/48/168).
func (a *App) setTTL(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	if len(args) == 0 {
		fmt.Printf("Current TTL: %v; usage: ttl <hours>\n", a.cache.TTL())
		return
	}

	hours, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("TTL must be a whole number of hours")
		return
	}
	ttl := time.Duration(hours) * time.Hour

	allowed := false
	for _, v := range feed.AllowedTTLs {
		if ttl == v {
			allowed = true
			break
		}
	}
	if !allowed {
		fmt.Println("Supported TTL values: 8, 24, 48, 168 hours")
		return
	}

	if err := a.repos.Settings.Set(ctx, settingCacheTTLHours, args[0]); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.cache.SetTTL(ttl)
	fmt.Println("Saved")
}

// setCustomProxy persists the custom/homelab proxy URL (empty to clear).
func (a *App) setCustomProxy(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	customURL := ""
	if len(args) > 0 {
		customURL = args[0]
	}

	if err := a.repos.Settings.Set(ctx, settingCustomProxyURL, customURL); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.chain.SetCustomProxy(customURL)
	if customURL == "" {
		fmt.Println("Custom proxy cleared")
	} else {
		fmt.Println("Saved")
	}
}

// testProxy validates the configured worker against a stable external
// target and prints an actionable diagnosis.
func (a *App) testProxy(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	key, ok := a.store.Get(secrets.SlotProxyWorkerKey)
	if !ok {
		fmt.Println("No proxy worker key stored; use 'secret proxy_worker_key' first")
		return
	}
	workerURL, _ := a.repos.Settings.Get(ctx, settingWorkerURL)

	if err := a.chain.TestConnection(ctx, workerURL, key); err != nil {
		fmt.Println(friendlyError(err))
		return
	}
	fmt.Println("Worker connection OK")
}
