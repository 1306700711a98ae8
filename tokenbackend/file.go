package tokenbackend

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// TokenPair represents a bearer token and the user it belongs to.
type TokenPair struct {
	Token  string `json:"token" mapstructure:"token"`
	UserID string `json:"user_id" mapstructure:"user_id"`
}

// LoadTokensFromFile loads bearer tokens from a JSON file.
// The file should contain an array of token pairs:
//
//	[
//	  {"token": "d3b07384d113edec", "user_id": "8f14e45f-ceea-467f-9f4e-0b4b9f6c1a2b"},
//	  {"token": "another_token", "user_id": "..."}
//	]
//
// Returns a map of token to user ID.
func LoadTokensFromFile(path string) (map[string]uuid.UUID, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}

	var pairs []TokenPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse tokens file: %w", err)
	}

	tokens := make(map[string]uuid.UUID, len(pairs))
	for _, p := range pairs {
		if p.Token == "" || p.UserID == "" {
			continue
		}
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, fmt.Errorf("parse user id for token: %w", err)
		}
		tokens[p.Token] = userID
	}

	return tokens, nil
}
