package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-tracking-service/internal/config"
	"order-tracking-service/internal/controller"
	"order-tracking-service/internal/kafka"
	"order-tracking-service/internal/rabbit"
	"order-tracking-service/internal/repository"
	"order-tracking-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetHeader("${time_rfc3339} ${level} ${short_file}:${line}")
	log.SetLevel(parseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositorios
	orders, users, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// Servicios
	tokens, err := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	authService, err := service.NewAuthService(users, service.NewBcryptHasher(0), tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	// Conexión a RabbitMQ si hace falta (eventos o consumidor del transportista)
	var rabbitConn *amqp091.Connection
	if cfg.EventsBackend == config.EventsRabbit || cfg.CarrierConsumerEnabled {
		rabbitConn, err = amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("Error conectando a RabbitMQ: %v", err)
		}
		defer rabbitConn.Close()
	}

	publisher, closePublisher := openPublisher(cfg, rabbitConn)
	defer closePublisher()

	orderService := service.NewOrderService(orders, publisher)

	if cfg.CarrierConsumerEnabled {
		ch, err := rabbitConn.Channel()
		if err != nil {
			log.Fatalf("Error creando canal en RabbitMQ: %v", err)
		}
		defer ch.Close()
		if err := rabbit.SetupConsumers(ctx, ch, rabbit.NewStatusUpdateConsumer(orderService)); err != nil {
			log.Fatalf("carrier consumer: %v", err)
		}
	}

	// Router
	r := controller.NewRouter(
		controller.RouterConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AdminAPIKey:    cfg.AdminAPIKey,
		},
		controller.NewOrderController(orderService),
		controller.NewAuthController(authService),
		authService,
	)
	if cfg.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY is empty, admin routes are disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Order Tracking Service ejecutándose en puerto %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (service.OrderRepository, service.UserRepository, func()) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("STORE_DRIVER=memory, data will be lost on restart")
		return repository.NewMemoryOrderRepository(), repository.NewMemoryUserRepository(), func() {}
	}

	// Conexión a MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDBName)

	orders := repository.NewMongoOrderRepository(db)
	users := repository.NewMongoUserRepository(db)
	if err := orders.EnsureIndexes(connectCtx); err != nil {
		log.Fatal(err)
	}
	if err := users.EnsureIndexes(connectCtx); err != nil {
		log.Fatal(err)
	}
	log.Infof("connected to MongoDB database %s", cfg.MongoDBName)

	return orders, users, func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Errorf("disconnect MongoDB: %v", err)
		}
	}
}

func openPublisher(cfg *config.Config, conn *amqp091.Connection) (service.EventPublisher, func()) {
	switch cfg.EventsBackend {
	case config.EventsRabbit:
		ch, err := conn.Channel()
		if err != nil {
			log.Fatalf("Error creando canal en RabbitMQ: %v", err)
		}
		p, err := rabbit.NewPublisher(ch)
		if err != nil {
			log.Fatal(err)
		}
		log.Infof("publishing order events to exchange %s", rabbit.OrderEventsExchange)
		return p, func() { _ = ch.Close() }
	case config.EventsKafka:
		p := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Infof("publishing order events to kafka topic %s", cfg.KafkaTopic)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Errorf("close kafka writer: %v", err)
			}
		}
	}
	return service.NopPublisher{}, func() {}
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
