// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ismaelcabanas/home-inventory-backend/internal/config"
	"github.com/ismaelcabanas/home-inventory-backend/internal/database"
	"github.com/ismaelcabanas/home-inventory-backend/internal/ocr"
	"github.com/ismaelcabanas/home-inventory-backend/internal/preferences"
	"github.com/ismaelcabanas/home-inventory-backend/internal/router"
	"github.com/ismaelcabanas/home-inventory-backend/internal/scheduler"
	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Stores: postgres in production, in-memory for local hacking
	var productStore store.ProductStore
	var receiptStore store.ReceiptStore
	if cfg.Database.Driver == "memory" {
		productStore = store.NewMemoryProductStore()
		receiptStore = store.NewMemoryReceiptStore()
		logrus.Warn("Using in-memory stores, data will not survive restarts")
	} else {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
		productStore = store.NewGormProductStore(db)
		receiptStore = store.NewGormReceiptStore(db)
	}

	// Shopping-mode preference store
	var prefs preferences.Store
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		prefs = preferences.NewRedisStore(client)
	} else {
		prefs = preferences.NewMemoryStore()
	}

	provider := buildProvider(cfg)
	if !provider.IsAvailable() {
		logrus.WithField("provider", provider.Name()).Warn("OCR provider is not configured, captures will be queued")
	}

	archive, err := services.NewArchiveService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize receipt archive")
	}

	connectivity := services.NewHTTPConnectivityChecker(cfg.Queue.ProbeURL, 3*time.Second)

	inventoryService := services.NewInventoryService(productStore)
	shoppingListService := services.NewShoppingListService(productStore, prefs)
	receiptService := services.NewReceiptService(
		productStore,
		receiptStore,
		inventoryService,
		shoppingListService,
		provider,
		archive,
		connectivity,
		ocr.Options{
			APIKey:   cfg.OCR.APIKey,
			Model:    cfg.OCR.Model,
			Timeout:  time.Duration(cfg.OCR.TimeoutSeconds) * time.Second,
			Language: cfg.OCR.Language,
		},
		time.Duration(cfg.Queue.RetentionDays)*24*time.Hour,
	)

	drainer := scheduler.NewQueueDrainer(receiptService, connectivity,
		time.Duration(cfg.Queue.DrainIntervalSeconds)*time.Second)
	drainerCtx, cancelDrainer := context.WithCancel(context.Background())
	drainer.Start(drainerCtx)

	r := router.Initialize(router.Services{
		Inventory:    inventoryService,
		ShoppingList: shoppingListService,
		Receipts:     receiptService,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	drainer.Stop()
	cancelDrainer()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func buildProvider(cfg *config.Config) ocr.Provider {
	switch cfg.OCR.Provider {
	case "ocrspace":
		return ocr.NewOCRSpaceProvider(cfg.OCR.APIKey)
	case "stub":
		return ocr.NewStubProvider("Milk 1.99\nBread 2.49\nEggs 3.29")
	default:
		return ocr.NewOpenAIProvider(cfg.OCR.APIKey, cfg.OCR.Model)
	}
}
