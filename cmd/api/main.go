package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"boutique-storefront/internal/config"
	"boutique-storefront/internal/db"
	"boutique-storefront/internal/domain"
	"boutique-storefront/internal/httpserver"
	"boutique-storefront/internal/migrate"
	"boutique-storefront/internal/repository/cartblob"
	"boutique-storefront/internal/service/order"
	"boutique-storefront/internal/session"
	"boutique-storefront/internal/storeapi"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open cart store: %v", err)
	}
	defer closeStore()

	client := storeapi.New(cfg.APIBaseURL, nil, cfg.APITimeout)
	settings := storeapi.NewSettingsCache(client, domain.ShopSettings{
		WhatsApp:    cfg.WhatsAppNumber,
		WholesaleAt: cfg.WholesaleAt,
	}, cfg.SettingsTTL, logger)

	sessions := session.NewManager(session.Options{
		Store:         store,
		StoragePrefix: cfg.CartStoragePrefix,
		TTL:           cfg.SessionTTL,
		OrderAPI:      client,
		LinkSettings: func(ctx context.Context) order.LinkSettings {
			s := settings.Get(ctx)
			return order.LinkSettings{
				WhatsAppNumber: s.WhatsApp,
				CurrencyLabel:  cfg.CurrencyLabel,
				WholesaleAt:    s.WholesaleAt,
			}
		},
		Logger: logger,
	})
	go sessions.Run(ctx, time.Minute)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:       client,
		Settings:      settings,
		Sessions:      sessions,
		Store:         store,
		CurrencyLabel: cfg.CurrencyLabel,
		SiteURL:       cfg.SiteURL,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: strings.HasPrefix(cfg.SiteURL, "https://"),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (cart store %s)", cfg.HTTPAddr, cfg.CartStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// openStore selects the cart blob backend named by CART_STORE.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (cartblob.Store, func(), error) {
	switch cfg.CartStore {
	case "memory", "":
		return cartblob.NewMemory(), func() {}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := cartblob.NewRedis(rdb, cfg.CartTTL)
		if err := store.Ping(ctx); err != nil {
			logger.Printf("redis at %s not reachable yet: %v", cfg.RedisAddr, err)
		}
		return store, func() { _ = rdb.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString, 10)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return cartblob.NewPostgres(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}
}
