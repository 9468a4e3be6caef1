package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	delivery "golang-econ-reporter/internal/reporter/delivery/http"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/internal/reporter/service"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/postgres"
	"golang-econ-reporter/pkg/redis"
	"golang-econ-reporter/pkg/telegram"
	"golang-econ-reporter/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the report service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Report Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Load indicator catalog
	catalog, err := config.LoadIndicatorCatalog(cfg.Indicators.ConfigPath)
	if err != nil {
		appLogger.Fatal("Failed to load indicator catalog", logger.ErrorField(err))
	}

	// Initialize Gemini AI client
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	} else {
		appLogger.Warn("Telegram bot token is empty, push notifications disabled")
	}

	// Initialize repositories
	subscriberRepo := repository.NewSubscriberRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	fredRepo := repository.NewFREDRepository(cfg, appLogger)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	worldBankRepo := repository.NewWorldBankRepository(cfg, appLogger)
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI repository", logger.ErrorField(err))
	}

	// Initialize services
	router := service.NewSourceRouter()
	aggregator := service.NewIndicatorAggregator(cfg, appLogger, router, fredRepo, yahooRepo, worldBankRepo, redisClient)
	generator := service.NewInsightGenerator(appLogger, aiRepo, catalog)
	renderer, err := service.NewReportRenderer(catalog)
	if err != nil {
		appLogger.Fatal("Failed to initialize report renderer", logger.ErrorField(err))
	}
	pipeline := service.NewReportPipeline(appLogger, aggregator, generator, renderer, reportRepo, notifier)
	scheduler := service.NewReportScheduler(appLogger, subscriberRepo, pipeline)

	// Start the daily cron tick
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Scheduler.DailyCronSpec, func() {
		scheduler.RunDueToday(ctx, utils.TimeNowKST())
	}); err != nil {
		appLogger.Fatal("Failed to schedule daily report run", logger.ErrorField(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	indicatorHandler := delivery.NewIndicatorHandler(aggregator, catalog, appLogger)
	indicatorsGroup := apiV1.Group("/indicators")
	indicatorHandler.RegisterRoutes(indicatorsGroup)

	reportHandler := delivery.NewReportHandler(scheduler, reportRepo, appLogger)
	reportsGroup := apiV1.Group("/reports")
	reportHandler.RegisterRoutes(reportsGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "report-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing report-service CLI: %s\n", err)
		os.Exit(1)
	}
}
