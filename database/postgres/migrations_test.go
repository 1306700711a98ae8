package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/noteshare/database/postgres"
)

func TestMigrate(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	tableName := fmt.Sprintf("notes_%s", getRandomString(t))
	t.Cleanup(func() {
		_ = postgres.DropTable(context.Background(), pool, tableName)
	})

	err := postgres.Migrate(ctx, pool, tableName)
	require.NoError(t, err)

	// Migrate is idempotent.
	err = postgres.Migrate(ctx, pool, tableName)
	assert.NoError(t, err)

	err = postgres.ValidateSchema(ctx, pool, tableName)
	assert.NoError(t, err)
}

func TestMigrate_InvalidTable(t *testing.T) {
	err := postgres.Migrate(context.Background(), nil, "1bad")
	assert.Error(t, err)
}

func TestValidateSchema_MissingTable(t *testing.T) {
	pool := getSharedTestDatabase(t)

	tableName := fmt.Sprintf("notes_%s", getRandomString(t))

	err := postgres.ValidateSchema(context.Background(), pool, tableName)
	assert.Error(t, err)
}
