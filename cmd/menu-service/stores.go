package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/config"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders/repository"
)

// closers runs cleanups in reverse order of registration.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func openCartStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, log logrus.FieldLogger, cl *closers) (cart.Store, error) {
	switch cfg.CartStore {
	case "redis":
		log.WithField("addr", cfg.RedisAddr).Info("cart store: redis")
		return cart.NewRedisStore(rdb, cfg.CartTTL), nil
	case "mongo":
		db, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		cl.add(func() { db.Client().Disconnect(context.Background()) })
		store := cart.NewMongoStore(db)
		if err := store.CreateIndexes(ctx); err != nil {
			return nil, fmt.Errorf("create cart indexes: %w", err)
		}
		log.WithField("uri", cfg.MongoURI).Info("cart store: mongo")
		return store, nil
	}
	log.Info("cart store: memory")
	return cart.NewMemoryStore(), nil
}

// openCatalog opens the configured catalog and seeds the bundled restaurants
// into an empty SQLite database.
func openCatalog(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, cl *closers) (catalog.Repository, error) {
	if cfg.CatalogStore != "sqlite" {
		log.Info("catalog store: memory")
		return catalog.NewMemoryRepository(catalog.DefaultRestaurants()...), nil
	}

	repo, err := catalog.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	cl.add(func() { repo.Close() })
	if err := repo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		return nil, err
	}
	if err := seedCatalog(ctx, repo, log); err != nil {
		return nil, err
	}
	log.WithField("path", cfg.DBPath).Info("catalog store: sqlite")
	return repo, nil
}

func seedCatalog(ctx context.Context, repo catalog.Repository, log logrus.FieldLogger) error {
	for _, res := range catalog.DefaultRestaurants() {
		_, err := repo.GetRestaurant(ctx, res.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, catalog.ErrRestaurantNotFound) {
			return err
		}
		if err := repo.SaveRestaurant(ctx, res); err != nil {
			return fmt.Errorf("seed restaurant %s: %w", res.Slug, err)
		}
		log.WithField("slug", res.Slug).Info("seeded restaurant")
	}
	return nil
}

func openOrderRepository(cfg *config.Config, log logrus.FieldLogger, cl *closers) (repository.OrderRepository, error) {
	if cfg.OrdersStore != "postgres" {
		log.Info("orders store: memory")
		return repository.NewMemoryRepository(), nil
	}

	cred := cfg.PostgresCredentials()
	repo, err := repository.NewPostgresRepository(cred, log)
	if err != nil {
		return nil, err
	}
	cl.add(func() { repo.Close() })
	if err := repo.RunMigrations(cred); err != nil {
		return nil, err
	}
	return repo, nil
}
