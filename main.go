package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/cli"
	"ms-restaurant/internal/config"
	"ms-restaurant/internal/console"
	"ms-restaurant/internal/kafka"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/menu"
	"ms-restaurant/internal/receipt"
	receiptdb "ms-restaurant/internal/receipt/db"
	"ms-restaurant/internal/receipt/qr"
	rediswrap "ms-restaurant/internal/receipt/redis"
	"ms-restaurant/internal/session"
	"ms-restaurant/internal/tables"
)

type closer func()

// wireReceipts builds the issuer and attaches the optional archive, number
// reservation and QR stages that the configuration enables.
func wireReceipts(ctx context.Context, cfg *config.Config, calc billing.Calculator, owner string, log *logger.Logger) (*receipt.Issuer, []closer) {
	issuer := receipt.NewIssuer(cfg.Receipt.Dir, calc, log)
	issuer.Attempts = cfg.Receipt.NumberAttempts
	var closers []closer

	if cfg.Receipt.QREnabled {
		issuer.QR = qr.NewQRGenerator(cfg.Receipt.QRSecret)
	}

	if cfg.Archive.Enabled {
		archive, err := receiptdb.Open(ctx, cfg.Archive.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Receipt archive unavailable, continuing without it: %v", err))
		} else {
			log.Info("DATABASE", "✅ Receipt archive connected")
			issuer.Archive = archive
			issuer.Reservers = append(issuer.Reservers, archive)
			closers = append(closers, func() { archive.Close() })
		}
	}

	if cfg.Redis.Enabled {
		client, err := rediswrap.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Error("REDIS", fmt.Sprintf("Receipt number reservation disabled: %v", err))
		} else {
			log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
			issuer.Reservers = append(issuer.Reservers, rediswrap.NewRedis(client, cfg.Redis.LockTTL, owner, log))
			closers = append(closers, func() { client.Close() })
		}
	}

	return issuer, closers
}

func wireEvents(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.EventPublisher, closer) {
	if !cfg.Kafka.Enabled {
		log.Info("KAFKA", "Event stream disabled")
		return kafka.NoopPublisher{}, func() {}
	}

	topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := kafka.EnsureTopicsExist(topicCtx, cfg.Kafka.Brokers, cfg.Kafka.Topics.All(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Could not verify topics: %v", err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, log)
	log.Info("KAFKA", fmt.Sprintf("Publishing order events to %v", cfg.Kafka.Brokers))
	return producer, func() { producer.Close() }
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
	cfg := config.Load()

	opts := logger.Options{Service: "restaurant", Dir: cfg.Log.Dir}
	if cfg.Log.Console {
		opts.Console = os.Stderr
	}
	log := logger.MustNewLogger(opts)
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := tables.NewRegistry(cfg.Restaurant.TableQty, cfg.Restaurant.TableCapacity)
	if err != nil {
		log.Fatal("CONFIG", err.Error())
	}
	calc, err := cfg.Calculator()
	if err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	events, closeEvents := wireEvents(ctx, cfg, log)
	defer closeEvents()

	svc := session.NewService(registry, menu.Default(), calc, nil, events, log)
	issuer, closers := wireReceipts(ctx, cfg, calc, svc.SessionID, log)
	for _, c := range closers {
		defer c()
	}
	svc.Receipts = issuer

	log.Info("APP", fmt.Sprintf("Session %s started with %d table(s) of %d seat(s)", svc.SessionID, cfg.Restaurant.TableQty, cfg.Restaurant.TableCapacity))

	app := cli.NewApp(svc, console.NewPrompter(os.Stdin, os.Stdout))
	if err := app.Run(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			log.Warn("APP", "Input closed before the restaurant was closed")
			return
		}
		log.Error("APP", err.Error())
	}
	log.Info("APP", "✅ Session ended")
}
