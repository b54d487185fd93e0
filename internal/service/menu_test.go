package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"massimos/storefront/internal/config"
	"massimos/storefront/internal/domain"
	"massimos/storefront/internal/notify"
	"massimos/storefront/internal/state"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenuClient struct {
	mu    sync.Mutex
	items []domain.MenuItem
	err   error
	calls int
}

func (f *fakeMenuClient) FetchMenu(ctx context.Context) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.MenuItem(nil), f.items...), nil
}

func (f *fakeMenuClient) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func menuFixture() []domain.MenuItem {
	return []domain.MenuItem{
		{SKU: "margherita", Name: "Margherita", Price: 8, Category: "Pizza", Available: true},
		{SKU: "calzone", Name: "Calzone", Price: 9.5, Category: "Pizza", Available: true},
	}
}

func newTestMenu(t *testing.T, fetched []domain.MenuItem, fetchErr error) (*Menu, *fakeMenuClient, *state.MemoryStore, *clock.Mock) {
	t.Helper()

	fake := &fakeMenuClient{items: fetched, err: fetchErr}
	store := state.NewMemoryStore()
	mock := clock.NewMock()
	cfg := config.MenuConfig{CacheTTL: 300, RefreshThreshold: 0.8}

	return NewMenu(fake, store, notify.Nop{}, mock, cfg), fake, store, mock
}

func seedCache(t *testing.T, store *state.MemoryStore, mock *clock.Mock, age time.Duration, items []domain.MenuItem) {
	t.Helper()

	err := store.SaveMenuCache(context.Background(), domain.MenuCache{
		Data:      items,
		Timestamp: mock.Now().Add(-age).UnixMilli(),
	})
	require.NoError(t, err)
}

func TestLoadMenuServesFreshCacheWithoutFetching(t *testing.T) {
	menu, fake, store, mock := newTestMenu(t, menuFixture(), nil)
	cached := []domain.MenuItem{{SKU: "cached", Name: "Cached", Price: 1, Category: "Pizza", Available: true}}
	seedCache(t, store, mock, 4*time.Minute, cached)

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, cached, menu.Items())
	assert.Never(t, func() bool { return fake.fetchCount() > 0 },
		100*time.Millisecond, 10*time.Millisecond, "a fresh cache must not hit the network")
}

func TestLoadMenuRefreshesInBackgroundNearExpiry(t *testing.T) {
	menu, fake, store, mock := newTestMenu(t, menuFixture(), nil)
	cached := []domain.MenuItem{{SKU: "cached", Name: "Cached", Price: 1, Category: "Pizza", Available: true}}
	seedCache(t, store, mock, 4*time.Minute+30*time.Second, cached)

	menu.LoadMenu(context.Background(), false)

	// Cached items are adopted synchronously, before the refresh lands.
	assert.Equal(t, cached, menu.Items())

	require.Eventually(t, func() bool { return fake.fetchCount() == 1 },
		time.Second, 10*time.Millisecond, "one background refresh expected")
	require.Eventually(t, func() bool { return len(menu.Items()) == 2 },
		time.Second, 10*time.Millisecond, "refresh result adopted once it succeeds")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fake.fetchCount(), "exactly one background refresh")
}

func TestLoadMenuFetchesWhenCacheIsStale(t *testing.T) {
	menu, fake, store, mock := newTestMenu(t, menuFixture(), nil)
	seedCache(t, store, mock, 6*time.Minute, []domain.MenuItem{{SKU: "old", Name: "Old", Available: true}})

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, 1, fake.fetchCount())
	assert.Equal(t, menuFixture(), menu.Items())

	cache, err := store.LoadMenuCache(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Equal(t, mock.Now().UnixMilli(), cache.Timestamp, "cache entry replaced wholesale")
}

func TestLoadMenuFetchesOnColdStart(t *testing.T) {
	menu, fake, _, _ := newTestMenu(t, menuFixture(), nil)

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, 1, fake.fetchCount())
	assert.Len(t, menu.Items(), 2)
}

func TestForcedRefreshBypassesFreshCache(t *testing.T) {
	menu, fake, store, mock := newTestMenu(t, menuFixture(), nil)
	seedCache(t, store, mock, time.Minute, []domain.MenuItem{{SKU: "cached", Name: "Cached", Available: true}})

	menu.LoadMenu(context.Background(), true)

	assert.Equal(t, 1, fake.fetchCount())
	assert.Equal(t, menuFixture(), menu.Items())
}

func TestFailedRefreshKeepsAdoptedItemsAndCache(t *testing.T) {
	menu, fake, store, mock := newTestMenu(t, nil, errors.New("network unreachable"))
	cached := []domain.MenuItem{{SKU: "cached", Name: "Cached", Price: 1, Category: "Pizza", Available: true}}
	seedCache(t, store, mock, time.Minute, cached)

	menu.LoadMenu(context.Background(), false) // adopts cache, no fetch
	before := menu.Items()

	menu.LoadMenu(context.Background(), true) // forced fetch fails

	assert.Equal(t, 1, fake.fetchCount())
	assert.Equal(t, before, menu.Items(), "failure must not disturb the adopted list")

	cache, err := store.LoadMenuCache(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Equal(t, cached, cache.Data, "failure must not corrupt the persisted cache")
}

func TestEmptyFetchResultIsTreatedAsFailure(t *testing.T) {
	menu, _, store, mock := newTestMenu(t, []domain.MenuItem{}, nil)
	cached := []domain.MenuItem{{SKU: "cached", Name: "Cached", Price: 1, Category: "Pizza", Available: true}}
	seedCache(t, store, mock, time.Minute, cached)

	menu.LoadMenu(context.Background(), false)
	menu.LoadMenu(context.Background(), true)

	assert.Equal(t, cached, menu.Items())

	cache, err := store.LoadMenuCache(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Equal(t, cached, cache.Data, "zero items never overwrite a good cache")
}

// cacheSaveFailStore reads fine but rejects cache writes.
type cacheSaveFailStore struct {
	*state.MemoryStore
}

func (s *cacheSaveFailStore) SaveMenuCache(ctx context.Context, cache domain.MenuCache) error {
	return errors.New("redis: connection refused")
}

func TestRefreshAdoptsSnapshotWhenCacheSaveFails(t *testing.T) {
	store := &cacheSaveFailStore{state.NewMemoryStore()}
	fake := &fakeMenuClient{items: menuFixture()}
	menu := NewMenu(fake, store, notify.Nop{}, clock.NewMock(),
		config.MenuConfig{CacheTTL: 300, RefreshThreshold: 0.8})

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, 1, fake.fetchCount())
	assert.Equal(t, menuFixture(), menu.Items(), "snapshot serves from memory for the session")

	cache, err := store.MemoryStore.LoadMenuCache(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cache, "nothing was persisted")
}

func TestFailedColdStartLeavesMenuEmpty(t *testing.T) {
	menu, fake, _, _ := newTestMenu(t, nil, errors.New("boom"))

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, 1, fake.fetchCount())
	assert.Empty(t, menu.Items())
}

func TestCategoriesPreserveFirstSeenOrder(t *testing.T) {
	menu, _, _, _ := newTestMenu(t, []domain.MenuItem{
		{SKU: "a", Category: "Pizza", Available: true},
		{SKU: "b", Category: "Dessert", Available: true},
		{SKU: "c", Category: "Pizza", Available: true},
		{SKU: "d", Category: "Drinks", Available: true},
	}, nil)

	menu.LoadMenu(context.Background(), false)

	assert.Equal(t, []string{"Pizza", "Dessert", "Drinks"}, menu.Categories())
}
