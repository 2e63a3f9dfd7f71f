package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skincare_schedule_service/internal/app"
	"skincare_schedule_service/internal/infra/config"
	idb "skincare_schedule_service/internal/infra/database"
	"skincare_schedule_service/internal/infra/httpapi"
	"skincare_schedule_service/internal/infra/logger"
	"skincare_schedule_service/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Timezone: %s", cfg.LogLevel, cfg.Environment, cfg.Timezone)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	applied, err := idb.RunMigrations(db, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("FATAL: Could not apply database migrations: %v", err)
	}
	log.Infof("Database migrations applied: %d.", applied)

	// Initialize Repositories
	templateRepo := idb.NewPostgresTemplateRepository(db)
	dailyRepo := idb.NewPostgresDailySetRepository(db)
	monthlyRepo := idb.NewPostgresMonthlySetRepository(db)
	userDirectory := idb.NewPostgresUserDirectory(db)
	log.Info("Repositories initialized.")

	// Initialize Services
	templateService := app.NewTemplateServiceImpl(templateRepo, log)
	scheduleService := app.NewScheduleServiceImpl(templateRepo, dailyRepo, monthlyRepo, userDirectory, log, cfg.Timezone)
	log.Info("Schedule and template services initialized.")

	// Initialize the daily pull sweep
	pullScheduler := scheduler.NewDailyPullScheduler(scheduleService, userDirectory, log, cfg.CronSpecDailyPull, cfg.Timezone)
	if err := pullScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start daily pull scheduler: %v", err)
	}

	// HTTP server
	router := httpapi.NewRouter(cfg, scheduleService, templateService, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	pullScheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
