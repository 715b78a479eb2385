package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/api"
	"github.com/nikolayk812/shopcore/internal/cache"
	"github.com/nikolayk812/shopcore/internal/config"
	"github.com/nikolayk812/shopcore/internal/db"
	"github.com/nikolayk812/shopcore/internal/event"
	"github.com/nikolayk812/shopcore/internal/logger"
	"github.com/nikolayk812/shopcore/internal/repository"
	"github.com/nikolayk812/shopcore/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", ".env", "path to the .env config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(cf.LogLevel, cf.LogPretty)
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cf.MigrateOnStart {
		if err := db.Migrate(cf.PostgresDSN()); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
		log.Info().Msg("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cf.PostgresDSN())
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cf.RedisAddr, DB: cf.RedisDB})
	defer redisClient.Close()

	writer := event.NewKafkaWriter(cf.Brokers(), cf.KafkaOrderTopic, log)
	publisher := event.NewOrderPublisher(writer)
	defer publisher.Close()

	storeCurrency := cf.Currency()

	categories := service.NewCategoryService(repository.NewCategory(pool), log)
	products := service.NewProductService(
		repository.NewProduct(pool),
		cache.NewProduct(redisClient, cache.DefaultPrefix, cf.ProductCacheTTL),
		storeCurrency,
		log,
	)
	orders := service.NewOrderService(repository.NewOrder(pool), publisher, storeCurrency, log)

	limiter := rate.NewLimiter(rate.Limit(cf.RateLimitRPS), cf.RateLimitBurst)
	handler := api.NewHandler(categories, products, orders, log)

	srv := &http.Server{
		Addr:              ":" + cf.ServerPort,
		Handler:           api.NewRouter(handler, limiter, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	})

	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(gctx, configPath, func(next *config.Config) {
				if err := logger.SetLevel(next.LogLevel); err != nil {
					log.Warn().Err(err).Msg("config reload, log level kept")
					return
				}
				log.Info().Str("level", zerolog.GlobalLevel().String()).Msg("config reloaded")
			}, func(err error) {
				log.Warn().Err(err).Msg("config watch")
			})
			if err != nil {
				log.Warn().Err(err).Msg("config watch disabled")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("closed completed")
	return nil
}
