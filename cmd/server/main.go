package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketplaceOrders/internal/cache"
	"marketplaceOrders/internal/config"
	"marketplaceOrders/internal/db"
	grpcserver "marketplaceOrders/internal/grpc"
	"marketplaceOrders/internal/i18n"
	"marketplaceOrders/internal/logger"
	"marketplaceOrders/internal/metrics"
	"marketplaceOrders/internal/orders"
	"marketplaceOrders/internal/payout"
	"marketplaceOrders/internal/status"
	"marketplaceOrders/internal/wallet"
	"marketplaceOrders/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl, err := logger.NewZapLog(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("configuration loaded", zap.Stringer("config", cfg))

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			zl.Warn("close db", zap.Error(err))
		}
	}()
	store := repository.NewStore(d)

	statusCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	m := metrics.New()
	translator, err := i18n.New(cfg.I18n.DefaultLocale)
	if err != nil {
		return err
	}
	registry := status.NewRegistry(store.Statuses, statusCache, cfg.Cache.StatusTTL, zl.Named("status"))
	svc := &grpcserver.Server{
		Users:       store.Users,
		Orders:      store.Orders,
		Registry:    registry,
		Transitions: orders.NewTransitionService(store, status.DefaultPolicy(), registry, m, zl.Named("orders")),
		Payouts:     payout.NewService(store, wallet.NewLedger(), m, zl.Named("payout")),
		Translator:  translator,
	}

	// Start gRPC
	shutdown, err := grpcserver.StartGRPC(cfg, svc, zl.Named("grpc"))
	if err != nil {
		return err
	}
	zl.Info("gRPC server listening", zap.String("address", cfg.GRPC.Address))

	g, gctx := errgroup.WithContext(ctx)
	var metricsSrv *http.Server
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			zl.Info("metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var errs []error
		if metricsSrv != nil {
			errs = append(errs, metricsSrv.Shutdown(sctx))
		}
		errs = append(errs, shutdown(sctx))
		return errors.Join(errs...)
	})

	err = g.Wait()
	zl.Info("shutdown complete")
	return err
}

// newCache picks the status cache backend.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemory(), func() {}, nil
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := cache.DialRedis(pctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedis(client, "marketplace:"), func() { _ = client.Close() }, nil
}

