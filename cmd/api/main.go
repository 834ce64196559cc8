package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/auth"
	"github.com/santalucia-health/hospital-admin-service/internal/db"
	"github.com/santalucia-health/hospital-admin-service/internal/httpapi"
	"github.com/santalucia-health/hospital-admin-service/internal/messaging"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
	"github.com/santalucia-health/hospital-admin-service/internal/telemetry"
)

func main() {
	log.Println("hospital-admin-service starting")

	ctx := context.Background()

	// Initialize OpenTelemetry; the service runs without it if the
	// collector is unreachable.
	otelCfg := telemetry.LoadConfig()
	provider, err := telemetry.InitProvider(ctx, otelCfg)
	if err != nil {
		log.Printf("Warning: OpenTelemetry initialization failed: %v", err)
	}
	if provider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during telemetry shutdown: %v", err)
			}
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Events are best effort: without a broker the service still serves
	// requests, it just logs publish warnings.
	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
		publisher = nil
	}
	if publisher != nil {
		defer publisher.Close()
	}

	var pub messaging.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	registry := service.NewRegistry(store.NewPostgres(database), pub)

	authCfg := auth.LoadConfig()
	verifier := auth.NewVerifier(authCfg)

	permissionsFile := os.Getenv("PERMISSIONS_FILE")
	if permissionsFile == "" {
		permissionsFile = "permissions.yml"
	}
	perms, err := auth.LoadPermissions(permissionsFile)
	if err != nil {
		log.Fatalf("Failed to load permissions from %s: %v", permissionsFile, err)
	}

	router := httpapi.SetupRouter(registry, verifier, perms, metrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      httpapi.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
