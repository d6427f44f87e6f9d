package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/VishalDET/mcflassets-sub000/cache"
	"github.com/VishalDET/mcflassets-sub000/config"
	"github.com/VishalDET/mcflassets-sub000/database"
	"github.com/VishalDET/mcflassets-sub000/handlers"
	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/middleware"
	"github.com/VishalDET/mcflassets-sub000/routes"
	"github.com/VishalDET/mcflassets-sub000/storage"
	"github.com/VishalDET/mcflassets-sub000/store"
	"github.com/VishalDET/mcflassets-sub000/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	// Store selection: Mongo in production, in-memory for local runs.
	var st store.Store
	switch config.StoreDriver {
	case "memory":
		st = store.NewMemory()
		log.Println("Using in-memory store (data is not persisted)")
	default:
		if err := database.Connect(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		st = store.NewMongo(database.Client.Database(config.MongoDB))
	}

	svc := lifecycle.NewService(st, lifecycle.WithUnassignEvents(config.LogUnassignEvents))

	// Optional dashboard cache
	var dashCache *cache.Cache
	if config.RedisAddr != "" {
		client, err := cache.InitRedis(config.RedisAddr)
		if err != nil {
			log.Printf("Redis unavailable, dashboard caching disabled: %v", err)
		} else {
			dashCache = cache.New(client, 5*time.Minute)
			log.Printf("Dashboard cache enabled (redis at %s)", config.RedisAddr)
		}
	}

	// Optional invoice storage
	var invoices *storage.InvoiceStore
	if config.InvoiceBucket != "" {
		var err error
		invoices, err = storage.New(context.Background(), storage.Config{
			Bucket:   config.InvoiceBucket,
			Region:   config.InvoiceRegion,
			Endpoint: config.InvoiceEndpoint,
		})
		if err != nil {
			log.Printf("Invoice storage unavailable, uploads disabled: %v", err)
		}
	}

	handlers.Init(st, svc, invoices, dashCache)

	// Websocket hub + asset change fan-out
	go websocket.GetHub().Run()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go handlers.WatchAssets(watchCtx)

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Asset backend running on http://localhost:%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	if config.StoreDriver != "memory" {
		database.Disconnect()
	}
	log.Println("Server stopped gracefully")
}
