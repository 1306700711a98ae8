package tokenbackend

import (
	"github.com/google/uuid"

	"github.com/sagarc03/noteshare"
)

// TokensConfig holds configuration for loading bearer tokens.
type TokensConfig struct {
	Inline []TokenPair `mapstructure:"inline"` // Inline token pairs from config
	File   string      `mapstructure:"file"`   // Path to JSON file containing token pairs
}

// NewTokenStore creates a TokenStore from the given configuration.
// It loads tokens from both inline config and file (if specified),
// merging them into a single store. File tokens take precedence over
// inline tokens if there are duplicates.
func NewTokenStore(cfg TokensConfig) (noteshare.TokenStore, error) {
	tokens := make(map[string]uuid.UUID)

	for _, p := range cfg.Inline {
		if p.Token == "" || p.UserID == "" {
			continue
		}
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, err
		}
		tokens[p.Token] = userID
	}

	if cfg.File != "" {
		fileTokens, err := LoadTokensFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for k, v := range fileTokens {
			tokens[k] = v
		}
	}

	return NewMapTokenStore(tokens), nil
}
