package app

import (
	"bank-cards-api/config"
	"bank-cards-api/crypto"
	"bank-cards-api/db"
	"bank-cards-api/handler"
	"bank-cards-api/logger"
	"bank-cards-api/repository"
	"bank-cards-api/router"
	"bank-cards-api/service"
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// The card cipher key is derived once; a missing secret aborts startup.
	cardCipher, err := crypto.NewCardCipher(config.AppConfig.Encryption.SecretKey)
	if err != nil {
		logger.Log.Fatalf("Error initializing card cipher: %v", err)
	}

	r := wire(database, redisClient, cardCipher)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// wire builds every layer on top of the shared database and redis handles.
func wire(database *sql.DB, redisClient *redis.Client, cardCipher *crypto.CardCipher) http.Handler {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	cardRepo := repository.NewCardRepository(database)
	transferRepo := repository.NewTransferRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo)
	cardService := service.NewCardService(database, cardRepo, userRepo, cardCipher, redisClient)
	transferService := service.NewTransferService(database, cardRepo, transferRepo, redisClient)

	userHandler := handler.NewUserHandler(userRepo, authService, userService)
	cardHandler := handler.NewCardHandler(cardService)
	transferHandler := handler.NewTransferHandler(transferService)

	return router.NewRouter(userHandler, cardHandler, transferHandler)
}

// TestApp exposes the wired router plus raw handles for integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	cardCipher, err := crypto.NewCardCipher(config.AppConfig.Encryption.SecretKey)
	if err != nil {
		logger.Log.Fatalf("Error initializing card cipher: %v", err)
	}

	return &TestApp{
		DB:     database,
		Router: wire(database, redisClient, cardCipher),
	}
}
