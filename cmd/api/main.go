package main

import (
	refdatahandler "skyseat/internal/refdata/handler"
	refdatarepo "skyseat/internal/refdata/repository"
	refdataservice "skyseat/internal/refdata/service"
	"skyseat/internal/seats/cache"
	seatshandler "skyseat/internal/seats/handler"
	seatsrepo "skyseat/internal/seats/repository"
	seatsservice "skyseat/internal/seats/service"
	sessionshandler "skyseat/internal/sessions/handler"
	sessionsrepo "skyseat/internal/sessions/repository"
	sessionsservice "skyseat/internal/sessions/service"
	"skyseat/internal/sessions/validator"
	"skyseat/pkg/app"
	"skyseat/pkg/config"
	"skyseat/pkg/contracts"
	"skyseat/pkg/kafka"
	kafka_config "skyseat/pkg/kafka/config"

	"github.com/joho/godotenv"
)

const ServiceName = "api"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking API service")

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

	handlers := initHandlers(cfg, producer)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, producer *kafka.Producer) []contracts.Handler {
	refRepo := refdatarepo.NewMongoRefDataRepository(cfg)
	seatRepo := seatsrepo.NewMongoFlightSeatRepository(cfg)
	sessionRepo := sessionsrepo.NewMongoSessionRepository(cfg)

	mapCache := cache.NewRedisSeatMapCache(cfg.Client.Redis, cfg.SeatMapCacheTTL, cfg.Log)

	seatMapService := seatsservice.NewSeatMapService(seatRepo, refRepo, mapCache, cfg)

	sessionValidator := validator.NewSessionValidator(cfg.Log)
	sessionService := sessionsservice.NewSessionService(
		sessionRepo,
		seatRepo,
		refRepo,
		sessionValidator,
		mapCache,
		producer,
		cfg,
	)

	refDataService := refdataservice.NewRefDataService(refRepo, seatMapService, cfg)

	cfg.Log.Info("Booking API service initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		sessionshandler.NewSessionHandler(sessionService, cfg),
		seatshandler.NewSeatMapHandler(seatMapService, cfg.Log),
		refdatahandler.NewRefDataHandler(refDataService, cfg.Log),
	}
}
