package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/noteshare"
	"github.com/sagarc03/noteshare/database/sqlite"
)

func mustCreate(t *testing.T, repo *sqlite.Repo, title, fileName string, owner uuid.UUID) noteshare.Note {
	t.Helper()

	created, err := repo.Create(context.Background(), noteshare.Note{
		Title:       title,
		Description: "about " + title,
		FileName:    fileName,
		FilePath:    noteshare.NewStorageKey(fileName),
		UploadedBy:  owner,
	})
	require.NoError(t, err, "create note")

	// Keep uploaded_at strictly increasing so listing order is stable.
	time.Sleep(2 * time.Millisecond)

	return created
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	created := mustCreate(t, repo, "Calculus II", "calc2.pdf", owner)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.UploadedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Calculus II", got.Title)
	assert.Equal(t, "calc2.pdf", got.FileName)
	assert.Equal(t, owner, got.UploadedBy)
	assert.WithinDuration(t, created.UploadedAt, got.UploadedAt, time.Millisecond)
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, noteshare.ErrNotFound)
}

func TestRepo_GetByIDAndOwner(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	created := mustCreate(t, repo, "Bio notes", "bio.pdf", owner)

	t.Run("owner sees the note", func(t *testing.T) {
		got, err := repo.GetByIDAndOwner(ctx, created.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		_, err := repo.GetByIDAndOwner(ctx, created.ID, uuid.New())
		assert.ErrorIs(t, err, noteshare.ErrNotFound)
	})

	t.Run("absent note sees not found", func(t *testing.T) {
		_, err := repo.GetByIDAndOwner(ctx, uuid.New(), owner)
		assert.ErrorIs(t, err, noteshare.ErrNotFound)
	})
}

func TestRepo_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "Delete me", "del.pdf", uuid.New())

	err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, noteshare.ErrNotFound)

	// Second delete reports not found rather than silent success.
	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, noteshare.ErrNotFound)
}

func TestRepo_Recent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	first := mustCreate(t, repo, "first", "f1.pdf", owner)
	second := mustCreate(t, repo, "second", "f2.pdf", owner)
	third := mustCreate(t, repo, "third", "f3.pdf", owner)

	t.Run("newest first", func(t *testing.T) {
		notes, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, third.ID, notes[0].ID)
		assert.Equal(t, second.ID, notes[1].ID)
		assert.Equal(t, first.ID, notes[2].ID)
	})

	t.Run("limit respected", func(t *testing.T) {
		notes, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, third.ID, notes[0].ID)
	})

	t.Run("zero limit falls back to default", func(t *testing.T) {
		notes, err := repo.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, notes, 3)
	})
}

func TestRepo_ByOwner(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	a1 := mustCreate(t, repo, "alice one", "a1.pdf", alice)
	mustCreate(t, repo, "bob one", "b1.pdf", bob)
	a2 := mustCreate(t, repo, "alice two", "a2.pdf", alice)

	t.Run("only the owner's notes, newest first", func(t *testing.T) {
		result, err := repo.ByOwner(ctx, alice, noteshare.ListQuery{Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, a2.ID, result.Items[0].ID)
		assert.Equal(t, a1.ID, result.Items[1].ID)
		assert.Empty(t, result.NextCursor)
	})

	t.Run("pagination walks the full set", func(t *testing.T) {
		page1, err := repo.ByOwner(ctx, alice, noteshare.ListQuery{Limit: 1})
		require.NoError(t, err)
		require.Len(t, page1.Items, 1)
		assert.Equal(t, a2.ID, page1.Items[0].ID)
		require.NotEmpty(t, page1.NextCursor)

		page2, err := repo.ByOwner(ctx, alice, noteshare.ListQuery{Limit: 1, Cursor: page1.NextCursor})
		require.NoError(t, err)
		require.Len(t, page2.Items, 1)
		assert.Equal(t, a1.ID, page2.Items[0].ID)
		assert.Empty(t, page2.NextCursor)
	})

	t.Run("unknown owner gets an empty page", func(t *testing.T) {
		result, err := repo.ByOwner(ctx, uuid.New(), noteshare.ListQuery{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("invalid cursor is invalid input", func(t *testing.T) {
		_, err := repo.ByOwner(ctx, alice, noteshare.ListQuery{Limit: 10, Cursor: "garbage"})
		assert.ErrorIs(t, err, noteshare.ErrInvalidInput)
	})
}

func TestRepo_Search(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	calc := mustCreate(t, repo, "Calculus II summary", "calc2.pdf", owner)
	mustCreate(t, repo, "Organic chemistry", "chem.pdf", owner)
	bio := mustCreate(t, repo, "Cell biology", "bio.pdf", owner)

	t.Run("matches title substring", func(t *testing.T) {
		result, err := repo.Search(ctx, noteshare.SearchQuery{Term: "calculus", Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, calc.ID, result.Items[0].ID)
	})

	t.Run("matches description substring", func(t *testing.T) {
		result, err := repo.Search(ctx, noteshare.SearchQuery{Term: "about Cell", Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, bio.ID, result.Items[0].ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		result, err := repo.Search(ctx, noteshare.SearchQuery{Term: "CALCULUS", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("no matches is an empty page", func(t *testing.T) {
		result, err := repo.Search(ctx, noteshare.SearchQuery{Term: "astrophysics", Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		result, err := repo.Search(ctx, noteshare.SearchQuery{Term: "%", Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})
}

func TestRepo_KeyExists(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "keyed", "keyed.pdf", uuid.New())

	exists, err := repo.KeyExists(ctx, created.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.KeyExists(ctx, "nope_missing.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewRepo_InvalidTable(t *testing.T) {
	_, err := sqlite.NewRepo(nil, "bad name; DROP TABLE x")
	assert.Error(t, err)
}
