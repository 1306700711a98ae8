package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/noteshare/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "noteshare",
	Short:   "Note sharing server backed by remote object storage",
	Long: `NoteShare is a note sharing server where users upload study
documents, browse and search what others shared, and fetch files
through short-lived signed URLs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			configFiles = append(configFiles, configFile)
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: NOTESHARE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: noteshare.db, env: NOTESHARE_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-backend", "", "object store backend: minio, storagerest (default: minio, env: NOTESHARE_STORAGE_BACKEND)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
