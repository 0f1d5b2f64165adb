package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/config"
	h "github.com/Rogerio-17/cardapio-digital-web/internal/http"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
	"github.com/Rogerio-17/cardapio-digital-web/internal/metrics"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders/consumer"
	"github.com/Rogerio-17/cardapio-digital-web/internal/postal"
	"github.com/Rogerio-17/cardapio-digital-web/internal/publisher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cl closers
	defer cl.closeAll()

	var rdb *redis.Client
	if cfg.CartStore == "redis" {
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		cl.add(func() { client.Close() })
		rdb = client
		log.Info("Redis ping succeeded")
	}

	cartStore, err := openCartStore(ctx, cfg, rdb, log, &cl)
	if err != nil {
		return err
	}
	catalogRepo, err := openCatalog(ctx, cfg, log, &cl)
	if err != nil {
		return err
	}
	orderRepo, err := openOrderRepository(cfg, log, &cl)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	orderService := orders.NewService(orderRepo, log, orders.WithObserver(metrics.NewOrderMetrics(reg)))

	var submitter checkout.Submitter = orderService
	if cfg.OrderSubmitter == "kafka" {
		kafkaSubmitter := publisher.NewKafkaSubmitter(publisher.NewKafkaWriter(cfg.Brokers()...), log)
		cl.add(func() { kafkaSubmitter.Close() })
		submitter = kafkaSubmitter
		log.WithField("brokers", cfg.KafkaBrokers).Info("orders are submitted through kafka")
	}
	if cfg.OrdersConsumerEnabled {
		c := consumer.NewConsumer(orderService, log, cfg.Brokers()...)
		go c.Run(ctx)
		cl.add(c.Close)
		log.Info("orders consumer started")
	}

	var lookup postal.Lookuper = postal.NewViaCEPClient(cfg.ViaCEPURL, cfg.ViaCEPTimeout, log)
	if rdb != nil && cfg.PostalCacheTTL > 0 {
		lookup = postal.NewCachedLookuper(lookup, rdb, cfg.PostalCacheTTL, log)
	}

	router := h.NewRouter(h.Deps{
		Catalog:        catalogRepo,
		Carts:          cart.NewService(cartStore, log, cart.WithIdleTTL(cfg.CartIdleTTL)),
		Submitter:      submitter,
		ChangePolicy:   checkout.ChangePolicy{Enforce: cfg.CheckoutEnforceChangeFor},
		Postal:         lookup,
		Orders:         orderService,
		Registry:       reg,
		Logger:         log,
		RequestTimeout: 30 * time.Second,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.HTTPPort).Info("menu service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down menu service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return err
	}
	log.WithFields(logrus.Fields{"pid": os.Getpid()}).Info("menu service stopped")
	return nil
}
