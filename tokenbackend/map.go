// Package tokenbackend provides TokenStore implementations for resolving bearer tokens to users.
package tokenbackend

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sagarc03/noteshare"
)

// MapTokenStore resolves tokens from an in-memory map.
// Suitable for configuration file-based token storage.
type MapTokenStore struct {
	tokens map[string]uuid.UUID
}

// NewMapTokenStore creates a new map-based token store with the given token to user ID mapping.
func NewMapTokenStore(tokens map[string]uuid.UUID) *MapTokenStore {
	return &MapTokenStore{tokens: tokens}
}

// Lookup retrieves the user ID for the given token from the map.
func (s *MapTokenStore) Lookup(token string) (uuid.UUID, error) {
	userID, found := s.tokens[token]
	if !found {
		return uuid.Nil, fmt.Errorf("token not found: %w", noteshare.ErrUnauthorized)
	}
	return userID, nil
}
