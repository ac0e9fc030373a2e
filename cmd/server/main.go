package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"paybridge/internal/assembly/articles"
	"paybridge/internal/assembly/handler"
	asmmetrics "paybridge/internal/assembly/metrics"
	"paybridge/internal/assembly/ports"
	"paybridge/internal/assembly/service"
	"paybridge/internal/assembly/shipping"
	orderstore "paybridge/internal/assembly/store/order"
	"paybridge/internal/assembly/store/pickup"
	"paybridge/internal/assembly/store/settings"
	"paybridge/internal/gatewayclient"
	"paybridge/internal/platform/audit"
	"paybridge/internal/platform/config"
	"paybridge/internal/platform/httpserver"
	"paybridge/internal/platform/logger"
	platformredis "paybridge/internal/platform/redis"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal assembly packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store settings and tax rates come from the settings file; absent a
	// file the service runs with empty settings and gateway defaults.
	settingsFile := &settings.File{}
	if cfg.SettingsPath != "" {
		loaded, err := settings.Load(cfg.SettingsPath)
		if err != nil {
			return err
		}
		settingsFile = loaded
	}
	configSource := settings.New(settingsFile.Settings)
	taxRates := settings.NewTaxRates(settingsFile.TaxRates)

	// Order snapshots: postgres in production, memory otherwise.
	var (
		orders ports.OrderSource
		cart   ports.CartSource
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := orderstore.NewPostgres(pool)
		orders, cart = store, store
	} else {
		store := orderstore.NewMemory()
		orders, cart = store, store
		log.Warn("no postgres configured, using in-memory order store")
	}

	// Carrier pickup lookups, cached in redis when available.
	var points ports.PickupPointSource = pickup.NewMemory()
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		points = pickup.NewCached(redisClient.Client, points)
	}

	var publisher ports.AuditPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kafkaPublisher.Close(closeCtx)
		}()
		publisher = kafkaPublisher
	} else {
		publisher = audit.NewMemoryPublisher()
	}

	metrics := asmmetrics.New()

	resolver, err := shipping.New(cart, points, shipping.WithLogger(log))
	if err != nil {
		return err
	}
	builder, err := articles.New(configSource, cart, taxRates,
		articles.WithLogger(log),
		articles.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithAuditPublisher(publisher),
	}
	if cfg.GatewayURL != "" {
		submitter, err := gatewayclient.New(cfg.GatewayURL, gatewayclient.WithLogger(log))
		if err != nil {
			return err
		}
		opts = append(opts, service.WithSubmitter(submitter))
	}
	assembler, err := service.New(orders, configSource, resolver, builder, opts...)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(30 * time.Second))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(assembler, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting paybridge", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
