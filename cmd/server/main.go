package main

import (
	"log"

	"runam-backend/internal/api"
	"runam-backend/internal/config"
	"runam-backend/internal/database"
	"runam-backend/internal/services"
	"runam-backend/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MongoDB archive (optional - for dispute review)
	var archive *database.ArchiveClient
	if cfg.MongoDB.URI != "" || cfg.MongoDB.Host != "" {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		archive, err = database.NewArchiveClient(cfg.MongoDB)
		if err != nil {
			log.Printf("WARNING: Failed to connect to MongoDB (archiving disabled): %v", err)
			archive = nil
		} else {
			log.Printf("Successfully connected to MongoDB for audit archiving")
			defer archive.Close()
		}
	} else {
		log.Printf("MongoDB not configured (Host and URI are empty), audit archiving disabled")
	}

	// Initialize InfluxDB event recorder (optional - for lifecycle metrics)
	var recorder *database.EventRecorder
	if cfg.InfluxDB.URL != "" {
		recorder, err = database.NewEventRecorder(
			cfg.InfluxDB.URL,
			cfg.InfluxDB.Token,
			cfg.InfluxDB.Org,
			cfg.InfluxDB.Bucket,
		)
		if err != nil {
			log.Printf("WARNING: Failed to connect to InfluxDB (event metrics disabled): %v", err)
			recorder = nil
		} else {
			defer recorder.Close()
		}
	} else {
		log.Printf("InfluxDB not configured, event metrics disabled")
	}

	// Initialize stores; sinks receive every successful write
	var sinks []store.AuditSink
	if archive != nil {
		sinks = append(sinks, archive)
	}
	if recorder != nil {
		sinks = append(sinks, recorder)
	}
	taskStore := store.NewTaskStore(sinks...)
	chatStore := store.NewChatStore()
	reportStore := store.NewReportStore()

	// Initialize services
	var reportArchiver services.ReportArchiver
	if archive != nil {
		reportArchiver = archive
	}
	disputeGate := services.NewDisputeGate(taskStore, reportStore, reportArchiver)
	arbiter := services.NewArbiter(taskStore)
	paymentTrack := services.NewPaymentTrack(taskStore, disputeGate)
	completionTrack := services.NewCompletionTrack(taskStore, disputeGate)
	chatGate := services.NewChatGate(taskStore, chatStore)
	matching := services.NewStoreMatchingIndex(taskStore)
	jwtService := services.NewJWTService(cfg.JWT.Secret)

	if cfg.Admin.APIKey == "" {
		log.Printf("WARNING: ADMIN_API_KEY not set, dispute resolution endpoint disabled")
	}

	// Initialize handlers and routes
	handlers := api.NewHandlers(
		taskStore,
		arbiter,
		paymentTrack,
		completionTrack,
		disputeGate,
		chatGate,
		matching,
		jwtService,
		cfg.Matching.RadiusKm,
	)
	router := api.SetupRoutes(handlers, jwtService, cfg.Admin.APIKey)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
