package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sendry-io/sendry-server/internal/api"
	"github.com/sendry-io/sendry-server/internal/config"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/service"
	"github.com/sendry-io/sendry-server/internal/storage"
)

// @title Sendry API
// @version 1.0
// @description Secure file transfer service with expiring, gated share links.
func main() {
	// Connect to database
	repositories.ConnectDatabase()

	var blobs storage.BlobStore
	if s3 := config.Envs.S3; s3.BucketName != "" {
		blobs = storage.NewS3Store(storage.S3Options{
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			AccountID:       s3.AccountID,
			Endpoint:        s3.Endpoint,
			BucketName:      s3.BucketName,
			Region:          s3.Region,
		})
	} else {
		log.Println("S3_BUCKET_NAME not set, using in-memory blob store (uploads do not survive restarts)")
		blobs = storage.NewMemoryStore()
	}

	repo := repositories.NewTransferRepository(repositories.DB)
	signer := service.NewURLSigner(config.Envs.DownloadSecret, 15*time.Minute)
	svc := service.New(repo, blobs, signer, config.Envs.PublicBaseURL)

	// Expired transfers are denied at access time regardless; the sweeper
	// just reclaims their storage.
	go svc.RunSweeper(context.Background(), time.Hour)

	port := config.Envs.Port

	mux := api.SetupRouter(svc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
		// Downloads can legitimately take a long time, so there is no
		// write timeout; slow-client protection comes from the header
		// read and idle timeouts.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Starting Sendry server on port: %s", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", port, err)
	}
}
