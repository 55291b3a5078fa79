package main

import (
	"log"
	"time"

	"tradelink-chat/config"
	"tradelink-chat/internal/chat"
	"tradelink-chat/internal/handler"
	"tradelink-chat/internal/redis"
	"tradelink-chat/internal/repository"
	"tradelink-chat/internal/server"
	"tradelink-chat/internal/services"
	"tradelink-chat/pkg/database"
	"tradelink-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redis.Ping(redisClient); err != nil {
		l.Warnf("Redis unreachable, connect rate limiting will fail open: %s", err)
	}
	limiter := redis.NewConnectLimiter(redisClient, cfg.ConnectsPerMin, l)

	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	listingRepo := repository.NewListingRepository(db)

	authService := services.NewAuthService(identityRepo, cfg)
	roomService := services.NewRoomService(db, roomRepo, messageRepo, listingRepo)
	messageService := services.NewMessageService(roomRepo, messageRepo)

	storeTimeout := time.Duration(cfg.StoreTimeoutSecs) * time.Second
	registry := chat.NewRegistry(l)
	chatHandler := chat.NewHandler(roomService, authService, messageService, registry, limiter, storeTimeout, l)
	roomHandler := handler.NewRoomHandler(roomService, messageService)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Rooms: roomHandler,
		Chat:  chatHandler,
	}, authService)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
