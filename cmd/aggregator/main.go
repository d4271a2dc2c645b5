package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scamnews/internal/config"
	"scamnews/internal/db"
	"scamnews/internal/ingest"
	"scamnews/internal/logger"
	"scamnews/internal/newsapi"
	"scamnews/internal/scheduler"
	"scamnews/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Init("info")
		logger.Log.Fatalf("Config load error: %v", err)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Log.Info("Application stopped")

	// Инициализация БД
	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer database.Close()

	// Сборка конвейера инжеста
	client := newsapi.NewClient(cfg.NewsAPI)
	ingestor := ingest.NewIngestor(
		database,
		client,
		ingest.SleepPacer{Delay: cfg.PacingDelay},
		cfg.Keywords,
	)

	// Запуск периодического инжеста
	go scheduler.Run(ctx, cfg.PollInterval, func(ctx context.Context) {
		if _, err := ingestor.RunCycle(ctx); err != nil {
			logger.Log.Errorf("Ingestion cycle error: %v", err)
		}
	})

	// HTTP сервер
	srv := server.NewServer(database, ingestor)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Routes(),
	}

	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Fatalf("Forced shutdown: %v", err)
	}
}
