package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/customer-records-backend/config"
	"github.com/ikkim/customer-records-backend/internal/app/controller"
	"github.com/ikkim/customer-records-backend/internal/app/repository"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	"github.com/ikkim/customer-records-backend/internal/db"
	"github.com/ikkim/customer-records-backend/internal/metrics"
	"github.com/ikkim/customer-records-backend/internal/router"
	"github.com/ikkim/customer-records-backend/internal/scheduler"
	"github.com/ikkim/customer-records-backend/internal/storage"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	redispkg "github.com/ikkim/customer-records-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting customer records server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
		"db_driver":   cfg.Database.Driver,
	})

	gdb, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Server.SeedSampleData {
		if _, err := db.SeedSampleData(gdb); err != nil {
			logger.Warn("Failed to seed sample data", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redispkg.Connect(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer redispkg.Close(redisClient)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	customerRepo := repository.NewCustomerRepository(gdb)
	addressRepo := repository.NewAddressRepository(gdb)

	customerService := service.NewCustomerService(customerRepo)
	addressService := service.NewAddressService(addressRepo, customerRepo)

	customerController := controller.NewCustomerController(customerService)
	addressController := controller.NewAddressController(addressService)

	exportScheduler := startExportScheduler(cfg, customerService)

	r := router.NewRouter(customerController, addressController, redisClient, cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if exportScheduler != nil {
		exportScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}

// startExportScheduler returns nil when scheduled exports are not configured
func startExportScheduler(cfg *config.Config, customers service.CustomerService) *scheduler.ExportScheduler {
	if cfg.Export.Schedule == "" {
		return nil
	}
	if cfg.S3.Bucket == "" {
		logger.Warn("EXPORT_SCHEDULE set without AWS_S3_BUCKET, scheduled exports disabled")
		return nil
	}

	uploader, err := storage.NewS3Storage(
		context.Background(),
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	if err != nil {
		logger.Error("Failed to initialize S3 storage, scheduled exports disabled", err)
		return nil
	}

	s := scheduler.NewExportScheduler(cfg.Export.Schedule, cfg.Export.Prefix, customers, uploader)
	if err := s.Start(); err != nil {
		logger.Warn("Invalid EXPORT_SCHEDULE, scheduled exports disabled", map[string]interface{}{
			"schedule": cfg.Export.Schedule,
			"error":    err.Error(),
		})
		return nil
	}
	return s
}
