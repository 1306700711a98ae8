// Package config provides configuration loading and validation for NoteShare.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (NOTESHARE_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with NOTESHARE_ prefix:
//   - server.port → NOTESHARE_SERVER_PORT
//   - database.type → NOTESHARE_DATABASE_TYPE
//   - storage.backend → NOTESHARE_STORAGE_BACKEND
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port, public_read, and max_upload_size
//   - Service: cleanup_timeout for blob cleanup after failed inserts
//   - Database: type, DSN, and table name
//   - Storage: backend selection (minio or storagerest) plus per-backend settings
//   - Relay: signed URL TTL and relay fetch timeout
//   - Auth: bearer token pairs (inline or from a JSON file)
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage backend must be minio or storagerest
//   - Log level must be debug, info, warn, or error
//
// The selected storage backend's credentials are validated separately by
// StorageConfig.Validate, which serve runs before connecting.
package config
