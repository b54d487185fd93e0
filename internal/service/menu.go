package service

import (
	"context"
	"sync"
	"time"

	"massimos/storefront/internal/client"
	"massimos/storefront/internal/config"
	"massimos/storefront/internal/domain"
	"massimos/storefront/internal/notify"
	"massimos/storefront/internal/state"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

// Menu owns the current menu snapshot and decides between serving the
// cache, fetching in the foreground, and refreshing behind a still-fresh
// snapshot. It is the sole entry point other components use for menu data.
type Menu struct {
	client   client.MenuClient
	store    state.Store
	notifier notify.Notifier
	clock    clock.Clock

	ttl       time.Duration
	threshold float64

	mu    sync.RWMutex
	items []domain.MenuItem
}

func NewMenu(menuClient client.MenuClient, store state.Store, notifier notify.Notifier, clk clock.Clock, cfg config.MenuConfig) *Menu {
	return &Menu{
		client:    menuClient,
		store:     store,
		notifier:  notifier,
		clock:     clk,
		ttl:       cfg.TTL(),
		threshold: cfg.RefreshThreshold,
	}
}

// LoadMenu adopts the cached snapshot when it is inside the freshness
// window, kicking off a background refresh once the cache age crosses the
// refresh threshold. A stale, absent or force-bypassed cache falls through
// to a foreground fetch. Failures never disturb the adopted snapshot.
func (m *Menu) LoadMenu(ctx context.Context, force bool) {
	if !force {
		cached, err := m.store.LoadMenuCache(ctx)
		if err != nil {
			log.Warnf("⚠️ Failed to read menu cache: %v", err)
		}

		if cached != nil && len(cached.Data) > 0 {
			age := cached.Age(m.clock.Now())
			if age <= m.ttl {
				m.adopt(cached.Data)
				log.Debugf("Serving %d menu items from cache (%s old)", len(cached.Data), age.Round(time.Second))

				if age > time.Duration(m.threshold*float64(m.ttl)) {
					log.Debug("Cache near expiry, refreshing in background")
					go m.refresh(context.WithoutCancel(ctx))
				}
				return
			}
		}
	}

	m.refresh(ctx)
}

// refresh fetches, normalizes and adopts a new snapshot. A transport error
// or an empty result leaves the current snapshot and the persisted cache
// untouched; stale data keeps serving.
func (m *Menu) refresh(ctx context.Context) {
	items, err := m.client.FetchMenu(ctx)
	if err != nil {
		log.Warnf("⚠️ Menu refresh failed: %v", err)
		m.notifier.Notify("No se pudo actualizar el menú")
		return
	}
	if len(items) == 0 {
		log.Warn("⚠️ Menu refresh returned no items, keeping current menu")
		m.notifier.Notify("No se pudo actualizar el menú")
		return
	}

	if err := m.store.SaveMenuCache(ctx, domain.MenuCache{
		Data:      items,
		Timestamp: m.clock.Now().UnixMilli(),
	}); err != nil {
		// The fresh snapshot still serves from memory for this session.
		log.Warnf("⚠️ Failed to persist menu cache: %v", err)
	}

	m.adopt(items)
	log.Infof("✅ Menu refreshed with %d items", len(items))
	m.notifier.Notify("Menú actualizado")
	m.notifier.Announce("Menú actualizado")
}

func (m *Menu) adopt(items []domain.MenuItem) {
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

// Items returns the currently adopted snapshot.
func (m *Menu) Items() []domain.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.MenuItem(nil), m.items...)
}

// Find looks an item up by SKU in the current snapshot.
func (m *Menu) Find(sku string) (domain.MenuItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.SKU == sku {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

// Categories lists the snapshot's categories in first-seen order.
func (m *Menu) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range m.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}
