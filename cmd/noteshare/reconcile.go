package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/noteshare"
	"github.com/sagarc03/noteshare/config"
	"github.com/sagarc03/noteshare/database"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Remove orphaned files from the object store",
	Long: `Remove files in the object store that no note references.

A failed upload can leave a file behind when the blob write succeeds
but the metadata insert does not. This command lists every stored key,
checks it against the notes table, and deletes the unreferenced ones.

Run this periodically to reclaim storage space.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect object store: %w", err)
	}

	service, err := noteshare.NewNoteService(repo, store, noteshare.ServiceConfig{
		CleanupTimeout: time.Duration(cfg.Service.CleanupTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	slog.Info("starting reconcile", "backend", cfg.Storage.Backend)

	removed, err := service.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	slog.Info("reconcile complete", "blobs_removed", removed)
	return nil
}
