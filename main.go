package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/api"
	"github.com/formbay/formbay-be/internal/config"
	"github.com/formbay/formbay-be/internal/database"
	"github.com/formbay/formbay-be/internal/logger"
	"github.com/formbay/formbay-be/internal/monitoring"
	"github.com/formbay/formbay-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, []byte(cfg.JWTSecret), cfg.SessionTTL)
	formService := services.NewFormService(db)
	responseService := services.NewResponseService(db, formService)

	// Set up and run the background session janitor
	janitor, err := monitoring.NewSessionJanitor(sessionService, cfg.SessionSweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SessionSweepSchedule).Msg("Invalid session sweep schedule")
	}
	go janitor.Run()

	// Set up router
	router := api.NewRouter(cfg, userService, sessionService, formService, responseService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
