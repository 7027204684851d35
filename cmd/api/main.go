package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/monicaDelao/brokerx/internal/audit"
	"github.com/monicaDelao/brokerx/internal/config"
	"github.com/monicaDelao/brokerx/internal/infrastructure/dynamo"
	jwtinfra "github.com/monicaDelao/brokerx/internal/infrastructure/jwt"
	"github.com/monicaDelao/brokerx/internal/infrastructure/memstore"
	s3infra "github.com/monicaDelao/brokerx/internal/infrastructure/s3"
	"github.com/monicaDelao/brokerx/internal/infrastructure/smtp"
	"github.com/monicaDelao/brokerx/internal/infrastructure/sns"
	transporthttp "github.com/monicaDelao/brokerx/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Audit trail: DynamoDB sink plus an optional write-once S3 archive.
	auditRepo := dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditRecords)
	var archiver audit.Archiver
	if cfg.AuditBucket != "" {
		archiver = s3infra.NewAuditArchive(s3infra.NewClient(cfg), cfg.AuditBucket)
	}
	recorder := audit.NewRecorder(auditRepo, archiver)

	// In-memory verification sessions, swept in the background until shutdown.
	verifySessions := memstore.NewSessionStore(cfg.VerifySessionTTL)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go verifySessions.Janitor(janitorCtx, time.Minute)

	deps := &transporthttp.Deps{
		AccountRepo:      dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		StatusRepo:       dynamo.NewStatusRepo(dynamoClient, cfg.DynamoTables.Statuses),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		VerifySessions:   verifySessions,
		Audit:            recorder,
		Mailer:           mailer,
		SMSSender:        smsSender,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopJanitor()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
