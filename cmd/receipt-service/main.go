package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-restaurant/internal/analytics"
	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/config"
	"ms-restaurant/internal/kafka"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/receipt/api"
	receiptdb "ms-restaurant/internal/receipt/db"
	"ms-restaurant/internal/sse"

	"github.com/shopspring/decimal"
)

// followOrderEvents relays the order stream to SSE clients and keeps a
// running revenue figure from paid orders.
func followOrderEvents(ctx context.Context, cfg *config.Config, emitter *sse.OrderEventEmitter, log *logger.Logger) {
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.All(), cfg.Kafka.GroupID, log)
	defer consumer.Close()

	revenue := decimal.Zero
	err := consumer.Start(ctx, func(event models.OrderEvent) {
		emitter.Emit(event)
		if event.Type != models.EventOrderPaid {
			return
		}
		total, err := decimal.NewFromString(event.Total)
		if err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Paid event %s has unreadable total %q", event.EventID, event.Total))
			return
		}
		revenue = revenue.Add(total)
		log.Info("REVENUE", fmt.Sprintf("Table %d paid $%s (receipt #%d), running total $%s",
			event.TableID, billing.Money(total), event.ReceiptNumber, billing.Money(revenue)))
	})
	if err != nil {
		log.Error("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
	}
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
	cfg := config.Load()

	log := logger.MustNewLogger(logger.Options{Service: "receipt-service", Dir: cfg.Log.Dir, Console: os.Stdout})
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archive, err := receiptdb.Open(ctx, cfg.Archive.DSN)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer archive.Close()
	log.Info("DATABASE", "✅ Receipt archive connected")

	emitter := sse.NewOrderEventEmitter()
	if cfg.Kafka.Enabled {
		go followOrderEvents(ctx, cfg, emitter, log)
	} else {
		log.Warn("KAFKA", "Event stream disabled, /api/events will stay quiet")
	}

	handler := api.NewHandler(archive, cfg.Receipt.QRSecret, log)
	sales := analytics.NewHandler(analytics.NewService(archive), log)

	r := handler.Routes()
	r.Get("/api/analytics/sales", sales.GetSalesReport)
	r.Get("/api/events", sse.NewHandler(emitter, log).StreamOrderEvents)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("APP", fmt.Sprintf("🚀 Receipt service on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("APP", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	log.Info("APP", "✅ Receipt service shutdown complete")
}
