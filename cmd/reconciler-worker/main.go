package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	transferconsumer "github.com/mateoavila/nft-transfers/internal/consumers/transfers"
	"github.com/mateoavila/nft-transfers/internal/dispatch"
	"github.com/mateoavila/nft-transfers/internal/identity"
	"github.com/mateoavila/nft-transfers/internal/ownership"
	"github.com/mateoavila/nft-transfers/internal/reconcile"
	"github.com/mateoavila/nft-transfers/pkg/config"
	"github.com/mateoavila/nft-transfers/pkg/db"
	"github.com/mateoavila/nft-transfers/pkg/logger"
	"github.com/mateoavila/nft-transfers/pkg/metrics"
	"github.com/mateoavila/nft-transfers/pkg/pubsub"
	"github.com/mateoavila/nft-transfers/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "reconciler-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "reconciler-worker"

	logg = logger.New(logger.Options{
		ServiceName: "reconciler-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	usernames, err := identity.NewResolver(
		identity.NewUserRepository(dbClient.DB()),
		redisClient,
		cfg.Marketplace.UsernameCacheTTL,
		logg,
	)
	requireResource(ctx, logg, "username resolver", err)

	policy := reconcile.Policy{OwnerInheritsOffers: cfg.Marketplace.OwnerInheritsOffers}
	reconcileSvc, err := reconcile.NewService(
		reconcile.NewRepository(dbClient.DB()),
		dbClient,
		usernames,
		policy,
		logg,
	)
	requireResource(ctx, logg, "reconcile service", err)

	dispatchMetrics := metrics.NewDispatchMetrics(prometheus.DefaultRegisterer)

	dispatcher, err := dispatch.NewDispatcher(
		[]dispatch.Filter{
			dispatch.ChainAllowlistFilter(cfg.Marketplace.ChainAllowlist),
			dispatch.DedupeFilter(redisClient, cfg.Marketplace.DedupeTTL, logg),
		},
		[]dispatch.Handler{
			reconcile.NewUpdateOrdersHandler(reconcileSvc),
			ownership.NewUpdateOwnershipHandler(ownership.NewRepository(dbClient.DB()), logg),
		},
		logg,
		dispatchMetrics,
	)
	requireResource(ctx, logg, "dispatcher", err)

	consumer, err := transferconsumer.NewConsumer(
		pubsubClient.TransfersSubscription(),
		dispatcher,
		redisClient,
		logg,
	)
	requireResource(ctx, logg, "transfers consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})

	logg.Info(runCtx, "reconciler worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "reconciler worker not working", err)
		os.Exit(1)
	}

	logg.Info(runCtx, "reconciler worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
