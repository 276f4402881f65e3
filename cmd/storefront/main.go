package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/journal"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	base := clients.NewClient("tienda", cfg.BackendURL, httpClient)
	backend := clients.NewBackend(base)

	store, closeStore := tokenStore(cfg, logger)
	defer closeStore()

	sess := session.New(backend.Auth, store, logger)
	restoreSession(ctx, sess, logger)

	bus := events.NewBus("", logger, 0)
	defer bus.Close()

	if bridge := signalBridge(cfg, bus, logger); bridge != nil {
		if err := bridge.Start(ctx); err != nil {
			logger.Fatalf("start signal bridge: %v", err)
		}
		defer func() {
			if err := bridge.Close(); err != nil {
				logger.Printf("close signal bridge: %v", err)
			}
		}()
	}

	repo, closeJournal := journalRepository(ctx, cfg, logger)
	defer closeJournal()

	reconciler := journal.NewReconciler(repo, backend.Orders, backend.Sales, logger)
	go reconciler.Run(ctx, cfg.ReconcileInterval)

	toasts := notify.NewQueue()
	deps := storefront.Deps{
		Users:   sess,
		Toasts:  toasts,
		Signals: bus,
		Journal: repo,
		Logger:  logger,
	}.WithBackend(backend)

	cart := storefront.NewCartView(deps)
	defer cart.Close()
	catalog := storefront.NewCatalogView(deps)
	defer catalog.Close()

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Session:          sess,
		Toasts:           toasts,
		Catalog:          catalog,
		Cart:             cart,
		Orders:           storefront.NewOrdersView(deps),
		Customers:        storefront.NewCustomersView(deps),
		Products:         storefront.NewProductsView(deps),
		Shipping:         storefront.NewShippingView(deps),
		Sales:            storefront.NewSalesView(deps),
		HealthProbes:     []clients.HealthProbe{{Name: "tienda", Client: base, Path: "/health"}},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("listening on :%s (backend %s)", cfg.Port, cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}

type sessionRestorer interface {
	Restore(ctx context.Context) (*model.User, error)
}

// restoreSession reports whether a stored session was resumed.
func restoreSession(ctx context.Context, s sessionRestorer, logger *log.Logger) bool {
	u, err := s.Restore(ctx)
	switch {
	case err != nil:
		logger.Printf("stored session dropped: %v", err)
		return false
	case u == nil:
		logger.Printf("no stored session")
		return false
	default:
		logger.Printf("session restored for %s", u.Email)
		return true
	}
}

func tokenStore(cfg config.Config, logger *log.Logger) (session.TokenStore, func()) {
	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return session.NewMemoryStore(), func() {}
	case config.TokenStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Printf("token store: redis at %s", cfg.RedisAddr)
		return session.NewRedisStore(rdb), func() { _ = rdb.Close() }
	default:
		logger.Printf("token store: file %s", cfg.TokenFile)
		return session.NewFileStore(cfg.TokenFile), func() {}
	}
}

func signalBridge(cfg config.Config, bus *events.Bus, logger *log.Logger) events.Bridge {
	switch cfg.SignalBroker {
	case config.BrokerRabbitMQ:
		conn, err := events.DialRabbit(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("rabbitmq connect error: %v", err)
		}
		bridge, err := events.NewRabbitBridge(conn, bus, cfg.SignalGroup, logger)
		if err != nil {
			_ = conn.Close()
			logger.Fatalf("rabbitmq bridge error: %v", err)
		}
		return bridge
	case config.BrokerKafka:
		return events.NewKafkaBridge(cfg.KafkaBrokers, cfg.KafkaTopic, bus, cfg.SignalGroup, logger)
	default:
		return nil
	}
}

func journalRepository(ctx context.Context, cfg config.Config, logger *log.Logger) (journal.Repository, func()) {
	if cfg.JournalDSN == "" {
		logger.Printf("checkout journal: in memory")
		return journal.NewMemoryRepository(), func() {}
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.JournalDSN, logger); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.JournalDSN)
	if err != nil {
		logger.Fatalf("journal db connect error: %v", err)
	}
	return journal.NewPostgresRepository(pool), pool.Close
}
