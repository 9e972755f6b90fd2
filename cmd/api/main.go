package main

import (
	"context"
	"log"
	"time"

	"shipgrid/internal/core/cache"
	"shipgrid/internal/core/config"
	"shipgrid/internal/core/database"
	"shipgrid/internal/core/httpclient"
	"shipgrid/internal/core/logger"
	"shipgrid/internal/core/metrics"
	"shipgrid/internal/core/server"
	advisoryadapter "shipgrid/internal/features/advisories/adapters"
	advisoryhandler "shipgrid/internal/features/advisories/handler"
	advisoryservice "shipgrid/internal/features/advisories/service"
	carriers "shipgrid/internal/features/carriers/domain"
	orderhandler "shipgrid/internal/features/orders/handler"
	orderservice "shipgrid/internal/features/orders/service"
	pincodeadapter "shipgrid/internal/features/pincode/adapters"
	ratesadapter "shipgrid/internal/features/rates/adapters"
	rateshandler "shipgrid/internal/features/rates/handler"
	ratesservice "shipgrid/internal/features/rates/service"
	remittanceadapter "shipgrid/internal/features/remittance/adapters"
	remittancehandler "shipgrid/internal/features/remittance/handler"
	remittanceservice "shipgrid/internal/features/remittance/service"
	trackingadapter "shipgrid/internal/features/tracking/adapters"
	trackinghandler "shipgrid/internal/features/tracking/handler"
	"shipgrid/internal/features/tracking/ports"
	trackingservice "shipgrid/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title Shipgrid API
// @version 1.0
// @description Multi-carrier shipping aggregation: tracking normalization, rate quotes and COD remittance.
// @contact.name API Support
// @contact.email support@shipgrid.in
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the pincode/override caches and the sweep locks.
	redisCache, err := cache.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	db, err := database.Connect(cfg.Database.DSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	l.Info("Database connection verified")

	reg := metrics.NewRegistry()
	appMetrics := metrics.NewAppMetrics(reg)

	httpClient := httpclient.NewClient(time.Duration(cfg.Rates.CarrierTimeoutMS) * time.Millisecond)

	// Pincode directory behind a read-through cache.
	pincodeResolver := pincodeadapter.NewCachedResolver(
		pincodeadapter.NewGormResolver(db),
		redisCache,
		time.Duration(cfg.Rates.PincodeCacheTTLSeconds)*time.Second,
	)

	// Tracking: status tables, normalizer and the polling sweeper.
	orderStore := trackingadapter.NewGormOrderStore(db)
	statusTables := []ports.StatusTable{
		trackingadapter.NewSmartshipTable(),
		trackingadapter.NewDelhiveryTable(),
		trackingadapter.NewBluedartTable(),
	}
	normalizer := trackingservice.NewNormalizer(orderStore, statusTables, appMetrics)

	feed := trackingadapter.NewHTTPFeed(httpClient,
		cfg.Carriers.SmartshipURL,
		cfg.Carriers.DelhiveryURL,
		cfg.Carriers.BluedartURL,
	)
	sweeper := trackingservice.NewSweeper(normalizer, orderStore, feed, redisCache, trackingservice.SweeperConfig{
		Interval:    time.Duration(cfg.Tracking.SweepIntervalSeconds) * time.Second,
		Concurrency: cfg.Tracking.SweepConcurrency,
		LockTTL:     time.Duration(cfg.Tracking.LockTTLSeconds) * time.Second,
	}, appMetrics)
	go sweeper.Run(ctx)

	trackingHdl := trackinghandler.NewTrackingHandler(orderStore, normalizer)

	// Rates: serviceability checks, plans/overrides and the calculator.
	checker := ratesadapter.NewHTTPServiceability(httpClient,
		cfg.Carriers.SmartshipURL,
		cfg.Carriers.DelhiveryURL,
		cfg.Carriers.BluedartURL,
	)
	planStore := ratesadapter.NewGormPlanStore(db)
	overrideStore := ratesadapter.NewCachedOverrideStore(
		planStore,
		redisCache,
		time.Duration(cfg.Rates.OverrideCacheTTLSeconds)*time.Second,
	)
	calculator := ratesservice.NewCalculator(
		pincodeResolver,
		checker,
		planStore,
		overrideStore,
		carriers.DefaultRegistry(),
		ratesservice.CalculatorConfig{
			CarrierTimeout:  time.Duration(cfg.Rates.CarrierTimeoutMS) * time.Millisecond,
			OverallDeadline: time.Duration(cfg.Rates.OverallDeadlineMS) * time.Millisecond,
		},
		appMetrics,
	)
	ratesHdl := rateshandler.NewRatesHandler(calculator)

	// Remittance: weekly COD payout roll-ups.
	aggregator := remittanceservice.NewAggregator(remittanceadapter.NewGormLedger(db))
	remittanceHdl := remittancehandler.NewRemittanceHandler(aggregator)

	// Order intake and carrier advisories.
	intakeSvc := orderservice.NewOrderIntakeService(orderStore, carriers.DefaultRegistry())
	orderHdl := orderhandler.NewOrderHandler(intakeSvc)

	advisorySvc := advisoryservice.NewAdvisoryService(
		advisoryadapter.NewRedisAdvisoryRepository(redisCache),
		carriers.DefaultRegistry(),
	)
	advisoryHdl := advisoryhandler.NewAdvisoryHandler(advisorySvc)

	srv := server.New(cfg, reg)

	// Register Routes
	srv.App.Post("/orders", orderHdl.CreateOrder)
	srv.App.Get("/orders/:awb/timeline", trackingHdl.GetTimeline)
	srv.App.Post("/orders/:awb/cancel", trackingHdl.CancelOrder)
	srv.App.Post("/rates/quotes", ratesHdl.ComputeQuotes)
	srv.App.Get("/sellers/:id/remittance/pending", remittanceHdl.GetPending)
	srv.App.Post("/sellers/:id/remittance/batches", remittanceHdl.CreateBatch)
	srv.App.Post("/carriers/:id/advisory", advisoryHdl.SetAdvisory)
	srv.App.Get("/carriers/:id/advisory", advisoryHdl.GetAdvisory)
	srv.App.Delete("/carriers/:id/advisory", advisoryHdl.RemoveAdvisory)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
