package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"massimos/storefront/internal/cart"
	"massimos/storefront/internal/client"
	"massimos/storefront/internal/config"
	"massimos/storefront/internal/notify"
	"massimos/storefront/internal/service"
	"massimos/storefront/internal/session"
	"massimos/storefront/internal/state"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.MenuClient
	Store    state.Store
	Menu     *service.Menu
	Cart     *cart.Engine
	Sessions *session.Manager
	Notifier notify.Notifier

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")

	store := state.NewRedisStore(rdb)
	menuClient := client.NewMenuClient(cfg.Menu)
	notifier := notify.LogNotifier{}

	return &Container{
		Config:   cfg,
		Client:   menuClient,
		Store:    store,
		Menu:     service.NewMenu(menuClient, store, notifier, clock.New(), cfg.Menu),
		Cart:     cart.NewEngine(store, notifier),
		Sessions: session.NewManager(),
		Notifier: notifier,
		redis:    rdb,
	}, nil
}

// Run loads persisted state, then serves the storefront loop alongside the
// cart change watcher until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	c.Cart.Load(ctx)
	c.Menu.LoadMenu(ctx, false)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Store.WatchCart(ctx, func() {
			c.Cart.Reload(context.WithoutCancel(ctx))
		})
	})

	g.Go(func() error {
		return c.runStorefront(ctx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")
	return c.redis.Close()
}
