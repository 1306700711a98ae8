package tokenbackend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/noteshare"
)

func writeTokensFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestMapTokenStore(t *testing.T) {
	alice := uuid.New()
	store := NewMapTokenStore(map[string]uuid.UUID{"alice-token": alice})

	t.Run("known token", func(t *testing.T) {
		userID, err := store.Lookup("alice-token")
		require.NoError(t, err)
		assert.Equal(t, alice, userID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := store.Lookup("nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, noteshare.ErrUnauthorized)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := store.Lookup("")
		assert.ErrorIs(t, err, noteshare.ErrUnauthorized)
	})
}

func TestLoadTokensFromFile(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	t.Run("valid file", func(t *testing.T) {
		path := writeTokensFile(t, `[
			{"token": "alice-token", "user_id": "`+alice.String()+`"},
			{"token": "bob-token", "user_id": "`+bob.String()+`"}
		]`)

		tokens, err := LoadTokensFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]uuid.UUID{
			"alice-token": alice,
			"bob-token":   bob,
		}, tokens)
	})

	t.Run("entries without token or user are skipped", func(t *testing.T) {
		path := writeTokensFile(t, `[
			{"token": "", "user_id": "`+alice.String()+`"},
			{"token": "no-user", "user_id": ""},
			{"token": "ok", "user_id": "`+bob.String()+`"}
		]`)

		tokens, err := LoadTokensFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]uuid.UUID{"ok": bob}, tokens)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTokensFromFile(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read tokens file")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeTokensFile(t, `{"not": "an array"}`)

		_, err := LoadTokensFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse tokens file")
	})

	t.Run("invalid user id", func(t *testing.T) {
		path := writeTokensFile(t, `[{"token": "tok", "user_id": "not-a-uuid"}]`)

		_, err := LoadTokensFromFile(path)
		require.Error(t, err)
	})
}

func TestNewTokenStore(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	t.Run("inline tokens", func(t *testing.T) {
		store, err := NewTokenStore(TokensConfig{
			Inline: []TokenPair{{Token: "alice-token", UserID: alice.String()}},
		})
		require.NoError(t, err)

		userID, err := store.Lookup("alice-token")
		require.NoError(t, err)
		assert.Equal(t, alice, userID)
	})

	t.Run("file tokens override inline on the same token", func(t *testing.T) {
		path := writeTokensFile(t, `[{"token": "shared", "user_id": "`+bob.String()+`"}]`)

		store, err := NewTokenStore(TokensConfig{
			Inline: []TokenPair{
				{Token: "shared", UserID: alice.String()},
				{Token: "inline-only", UserID: alice.String()},
			},
			File: path,
		})
		require.NoError(t, err)

		userID, err := store.Lookup("shared")
		require.NoError(t, err)
		assert.Equal(t, bob, userID)

		userID, err = store.Lookup("inline-only")
		require.NoError(t, err)
		assert.Equal(t, alice, userID)
	})

	t.Run("invalid inline user id", func(t *testing.T) {
		_, err := NewTokenStore(TokensConfig{
			Inline: []TokenPair{{Token: "tok", UserID: "bogus"}},
		})
		require.Error(t, err)
	})

	t.Run("empty config yields a store with no tokens", func(t *testing.T) {
		store, err := NewTokenStore(TokensConfig{})
		require.NoError(t, err)

		_, err = store.Lookup("anything")
		assert.ErrorIs(t, err, noteshare.ErrUnauthorized)
	})
}
