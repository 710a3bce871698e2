package main

import (
	"context"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enrollment-module/catalog"
	"enrollment-module/config"
	"enrollment-module/db"
	"enrollment-module/gateway"
	apphttp "enrollment-module/http"
	"enrollment-module/http/handlers"
	"enrollment-module/logger"
	"enrollment-module/services"
	"enrollment-module/services/kafka"
)

func main() {
	appLog := logger.NewDefault()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	database, err := db.Open(cfg)
	if err != nil {
		appLog.Fatal("Error initializing database: %v", err)
	}
	defer database.Close()

	gw, err := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, appLog)
	if err != nil {
		appLog.Fatal("Error initializing payment gateway: %v", err)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, appLog)

	cat := catalog.Default()
	orderStore := services.NewOrderStore(database)
	pricing := services.NewPricingService(cat)
	invoices := services.NewInvoiceService(orderStore)

	var events services.EventPublisher
	if producer.Connected() {
		events = producer
	}
	mailer := services.NewEmailService(cfg, invoices, events, appLog)
	payments := services.NewPaymentService(orderStore, gw, pricing, mailer, events, cfg.GSTRate, appLog)
	export := services.NewExportService(orderStore)

	auth, err := services.NewAuthService(database, cfg.JWTSecret, appLog)
	if err != nil {
		appLog.Fatal("Error initializing auth: %v", err)
	}

	// Email queue worker: delivers email.send events published by the
	// payment flow.
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, kafka.TopicEmails,
		"enrollment-module-consumer-group", mailer.ProcessEmailEvent, appLog)
	consumer.Start()

	mux := apphttp.NewRouter(apphttp.Handlers{
		Payment:     handlers.NewPaymentHandler(payments, appLog),
		Invoice:     handlers.NewInvoiceHandler(invoices, mailer, appLog),
		Auth:        handlers.NewAuthHandler(auth),
		Catalog:     handlers.NewCatalogHandler(cat),
		Export:      handlers.NewExportHandler(export, appLog),
		AuthService: auth,
	})

	server := &netHttp.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLog.Info("Server starting on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != netHttp.ErrServerClosed {
			appLog.Fatal("Server error: %v", err)
		}
	}()

	<-sigChan
	appLog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Error shutting down server: %v", err)
	}

	if err := consumer.Stop(); err != nil {
		appLog.Error("Error stopping Kafka consumer: %v", err)
	}
	if err := producer.Close(); err != nil {
		appLog.Error("Error closing Kafka producer: %v", err)
	}

	appLog.Info("Server shutdown complete")
}
