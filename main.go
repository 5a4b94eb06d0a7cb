package main

import (
	"context"
	"log"
	"time"

	"quickbite/config"
	"quickbite/internal/analytics"
	httpapi "quickbite/internal/api/http"
	"quickbite/internal/service"
	"quickbite/internal/storage"
)

const ordersTopic = "orders"

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(ordersTopic)
	defer kafkaWriter.Close()

	orderRepo := storage.NewPostgresOrderRepository(db)
	catalogRepo := storage.NewPostgresCatalogRepository(db)
	userRepo := storage.NewPostgresUserRepository(db)
	cartStore := storage.NewRedisCartStore(rdb, 30*24*time.Hour)
	publisher := storage.NewKafkaOrderPublisher(kafkaWriter)

	trackingURL := config.Env("TRACKING_URL", "http://localhost/track.html")
	orderSvc := service.NewOrderService(orderRepo, publisher, trackingURL)
	catalogSvc := service.NewCatalogService(catalogRepo)
	userSvc := service.NewUserService(userRepo)

	kafkaReader := config.NewKafkaReader(ordersTopic, "order-analytics")
	defer kafkaReader.Close()

	consumer := analytics.NewConsumer(kafkaReader, storage.NewRedisAnalyticsStore(rdb))
	go consumer.Start(context.Background())

	handler := httpapi.NewHandler(orderSvc, catalogSvc, userSvc, cartStore,
		config.Env("ADMIN_SERVICE_TOKEN", ""))

	httpapi.StartServer(":"+config.Env("PORT", "8080"), httpapi.NewRouter(handler))
}
