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
	"github.com/salu-0/rubbereco-api/internal/config"
	jwtinfra "github.com/salu-0/rubbereco-api/internal/infrastructure/jwt"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/smtp"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/snapshot"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/sns"
	transporthttp "github.com/salu-0/rubbereco-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Snapshot backend for the notification collection and the handoff slot.
	var snapshots snapshot.Store
	switch cfg.SnapshotBackend {
	case "dynamo":
		client := snapshot.NewDynamoClient(cfg)
		snapshot.BootstrapDynamo(ctx, client, cfg.SnapshotTable)
		snapshots = snapshot.NewDynamoStore(client, cfg.SnapshotTable)
	case "s3":
		snapshots = snapshot.NewS3Store(snapshot.NewS3Client(cfg), cfg.S3BucketName)
	default:
		fs, err := snapshot.NewFileStore(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("snapshot dir: %v", err)
		}
		snapshots = fs
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SMTP mailer for the email contact channel.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender for the sms contact channel (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		Snapshots:   snapshots,
		Mailer:      mailer,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE stream endpoints hold their connections open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, snapshots=%s)", cfg.AppPort, cfg.AppEnv, cfg.SnapshotBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
