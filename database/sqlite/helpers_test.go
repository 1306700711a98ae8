package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/noteshare/database/sqlite"

	_ "modernc.org/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestRepo creates a repo with a unique table name for test isolation
func setupTestRepo(t *testing.T) *sqlite.Repo {
	t.Helper()

	ctx := context.Background()

	tableName := fmt.Sprintf("notes_%s", getRandomString(t))

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open")

	t.Cleanup(func() { _ = db.Close() })

	err = sqlite.Migrate(ctx, db, tableName)
	require.NoError(t, err, "failed to migrate")

	err = sqlite.ValidateSchema(ctx, db, tableName)
	require.NoError(t, err, "failed to validate schema")

	repo, err := sqlite.NewRepo(db, tableName)
	require.NoError(t, err, "failed to create repo")

	return repo
}
