package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/aturuang/backend/internal/bot"
	"github.com/aturuang/backend/internal/database"
	"github.com/aturuang/backend/internal/interpreter"
	"github.com/aturuang/backend/internal/services"
)

func main() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("interpreter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("interpreter.model", "OPENROUTER_MODEL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("link.dashboard_url", "DASHBOARD_URL")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	token := viper.GetString("telegram.token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	interpreterService := interpreter.NewService(interpreter.NewOpenRouterProvider())
	ledgerService := services.NewLedgerService(db, redisClient)
	expenseService := services.NewExpenseService(interpreterService, ledgerService)
	queryService := services.NewQueryService(db, ledgerService)
	summaryService := services.NewSummaryService(db, redisClient)
	authService := services.NewAuthService(db, redisClient)
	linkService := services.NewLinkService(redisClient)
	voiceService := services.NewVoiceService()
	defer voiceService.Close()

	b, err := bot.NewBot(token, expenseService, queryService, summaryService,
		authService, linkService, voiceService)
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Bot starting...")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Println("Bot stopped")
}
