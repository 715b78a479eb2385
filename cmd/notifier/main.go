package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/shopcore/internal/config"
	"github.com/nikolayk812/shopcore/internal/event"
	"github.com/nikolayk812/shopcore/internal/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", ".env", "path to the .env config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "notifier: %v\n", err)
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

	reader := event.NewKafkaReader(cf.Brokers(), cf.KafkaOrderTopic, cf.KafkaGroupID, log)
	consumer := event.NewOrderConsumer(reader, event.NewLogNotifier(log), log)
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("topic", cf.KafkaOrderTopic).Str("group_id", cf.KafkaGroupID).Msg("notifier starting")
		return consumer.Run(gctx)
	})

	g.Go(func() error {
		err := config.Watch(gctx, configPath, func(next *config.Config) {
			if err := logger.SetLevel(next.LogLevel); err != nil {
				log.Warn().Err(err).Msg("config reload, log level kept")
			}
		}, func(err error) {
			log.Warn().Err(err).Msg("config watch")
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("closed completed")
	return nil
}
