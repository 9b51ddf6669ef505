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

	"go-stock-portfolio/internal/portfolio/config"
	"go-stock-portfolio/internal/portfolio/delivery/consumer"
	delivery "go-stock-portfolio/internal/portfolio/delivery/http"
	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/internal/portfolio/service"
	"go-stock-portfolio/pkg/logger"
	"go-stock-portfolio/pkg/mailer"
	"go-stock-portfolio/pkg/postgres"
	"go-stock-portfolio/pkg/redis"
	"go-stock-portfolio/pkg/token"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio service",
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

	appLogger.Info("Starting Portfolio Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
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

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	positionRepo := repository.NewStockPositionRepository(db.DB)
	quoteRepo := repository.NewAlphaVantageRepository(cfg, appLogger)

	// Initialize services
	sessionTTL := 24 * time.Hour
	if cfg.Security.SessionTTL != "" {
		sessionTTL, err = time.ParseDuration(cfg.Security.SessionTTL)
		if err != nil {
			appLogger.Fatal("Invalid session TTL", logger.ErrorField(err))
		}
	}
	tokens := token.NewService(cfg.Security.SecretKey)
	publisher := service.NewRedisEmailPublisher(redisClient.Client, cfg.Redis.StreamMaxLen)
	accountSvc := service.NewAccountService(userRepo, tokens, publisher, appLogger, cfg.Mail.BaseURL, time.Now)
	sessionSvc := service.NewSessionService(redisClient.Client, sessionTTL)
	valuationSvc := service.NewValuationService(quoteRepo, appLogger, time.Now)
	chartSvc := service.NewChartService(quoteRepo, appLogger, time.Now)
	stockSvc := service.NewStockService(positionRepo, valuationSvc, chartSvc, appLogger)

	// Start the nightly valuation refresher
	refreshCron := cfg.Scheduler.RefreshCron
	if refreshCron == "" {
		refreshCron = "0 22 * * 1-5"
	}
	refresherSvc := service.NewRefresherService(positionRepo, valuationSvc, appLogger, refreshCron)
	if err := refresherSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start valuation refresher", logger.ErrorField(err))
	}
	defer refresherSvc.Stop()

	// Start the mail delivery worker
	notifier := mailer.NewClient(mailer.Config{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUser,
		Password: cfg.Mail.SMTPPassword,
		From:     cfg.Mail.From,
	})
	mailConsumer := consumer.NewMailConsumer(redisClient.Client, notifier, appLogger)
	mailConsumer.Start(ctx)
	defer mailConsumer.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	accountHandler := delivery.NewAccountHandler(accountSvc, sessionSvc, appLogger)
	usersGroup := e.Group("/users")
	accountHandler.RegisterRoutes(usersGroup)

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stocksGroup := e.Group("/stocks", delivery.SessionMiddleware(sessionSvc, appLogger))
	stockHandler.RegisterRoutes(stocksGroup)

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
	rootCmd := &cobra.Command{Use: "portfolio-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-portfolio.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing portfolio-service CLI: %s\n", err)
		os.Exit(1)
	}
}
