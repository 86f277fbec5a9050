package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	seatsrepo "skyseat/internal/seats/repository"
	sessionsrepo "skyseat/internal/sessions/repository"
	"skyseat/internal/sweeper"
	"skyseat/pkg/config"
	"skyseat/pkg/kafka"
	kafka_config "skyseat/pkg/kafka/config"

	"github.com/joho/godotenv"
)

const ServiceName = "sweeper"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting sweeper service")

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	sessionRepo := sessionsrepo.NewMongoSessionRepository(cfg)
	seatRepo := seatsrepo.NewMongoFlightSeatRepository(cfg)

	sw := sweeper.New(sessionRepo, seatRepo, producer, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sw.Run(ctx)
}
