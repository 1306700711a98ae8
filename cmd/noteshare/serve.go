package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/noteshare"
	"github.com/sagarc03/noteshare/config"
	"github.com/sagarc03/noteshare/database"
	noteshttp "github.com/sagarc03/noteshare/http"
	"github.com/sagarc03/noteshare/objectstore/minio"
	"github.com/sagarc03/noteshare/objectstore/storagerest"
	"github.com/sagarc03/noteshare/tokenbackend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the NoteShare HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5710, "HTTP server port")
	serveCmd.Flags().Bool("public-read", true, "allow unauthenticated browsing and downloads")

	rootCmd.AddCommand(serveCmd)
}

// buildObjectStore connects the configured object store backend.
func buildObjectStore(ctx context.Context, cfg *config.Config) (noteshare.ObjectStore, error) {
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case "minio":
		return minio.New(ctx, cfg.Storage.Minio)
	case "storagerest":
		return storagerest.New(cfg.Storage.StorageREST, nil)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()
	slog.Info("connected to database", "type", cfg.Database.Type)

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect object store: %w", err)
	}
	slog.Info("connected to object store", "backend", cfg.Storage.Backend)

	service, err := noteshare.NewNoteService(repo, store, noteshare.ServiceConfig{
		CleanupTimeout: time.Duration(cfg.Service.CleanupTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	relay, err := noteshare.NewRelay(store, noteshare.RelayConfig{
		SignedURLTTL: time.Duration(cfg.Relay.SignedURLTTL) * time.Second,
		FetchTimeout: time.Duration(cfg.Relay.FetchTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create relay: %w", err)
	}

	tokens, err := tokenbackend.NewTokenStore(cfg.Auth.Tokens)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}

	handlerConfig := noteshttp.HandlerConfig{
		Tokens:        tokens,
		PublicRead:    cfg.Server.PublicRead,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
	}

	handler := noteshttp.NewHandler(&handlerConfig, service, relay)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "public_read", cfg.Server.PublicRead)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
