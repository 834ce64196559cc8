package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/db"
	"github.com/santalucia-health/hospital-admin-service/internal/messaging"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
)

func main() {
	log.Println("Overdue Invoice Sweep - Starting")

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	marked, err := registry.SweepOverdueInvoices(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	if marked == 0 {
		log.Println("No invoices past due. Exiting.")
		os.Exit(0)
	}

	log.Printf("✓ Sweep completed successfully: %d invoices marked overdue", marked)
	log.Println("Overdue Invoice Sweep - Finished")
}
