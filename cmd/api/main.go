package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/ibmdb/go_ibm_db"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Shotza247/watsonx-db2-api/internal/config"
	"github.com/Shotza247/watsonx-db2-api/internal/handler"
	"github.com/Shotza247/watsonx-db2-api/internal/middleware"
	"github.com/Shotza247/watsonx-db2-api/internal/repository"
	"github.com/Shotza247/watsonx-db2-api/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlx.Open("go_ibm_db", cfg.DSN())
	if err != nil {
		logger.Fatalf("Failed to open database handle: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database %s: %v", cfg.Target(), err)
	}
	logger.Infof("Connected to %s, table %s", cfg.Target(), cfg.QualifiedTable())

	// Initialize layers
	repo := repository.NewRepository(db, logger)
	svc := service.NewService(repo, cfg, logger)
	h := handler.NewHandler(svc, logger, cfg)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	h.RegisterRoutes(r)

	// Optional scheduled connectivity heartbeat
	if cfg.HealthCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.HealthCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := svc.TestConnection(ctx); err != nil {
				logger.WithError(err).Warn("Heartbeat: store unreachable")
				return
			}
			logger.Debug("Heartbeat: store reachable")
		}); err != nil {
			logger.Fatalf("Invalid HEALTH_CRON %q: %v", cfg.HealthCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
