package bookmarks

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/database/tags"
	"github.com/dkrasnov/linkhive/internal/entities"
	"github.com/dkrasnov/linkhive/internal/services"
)

func setupRepo(t *testing.T) (*Repository, *database.Database, uint, func()) {
	t.Helper()

	dbPath := "./test_bookmarks_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	user, err := db.CreateUser("tester", "tester@example.com")
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), db, user.ID, cleanup
}

func TestRepository_FindByURL(t *testing.T) {
	repo, _, userID, cleanup := setupRepo(t)
	defer cleanup()

	found, err := repo.FindByURL(userID, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, found)

	bookmark := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "Example"}
	require.NoError(t, repo.Create(bookmark))

	found, err = repo.FindByURL(userID, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, bookmark.ID, found.ID)
	assert.False(t, found.DeletedAt.Valid)
}

func TestRepository_FindByURL_IncludesSoftDeleted(t *testing.T) {
	repo, _, userID, cleanup := setupRepo(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "Example"}
	require.NoError(t, repo.Create(bookmark))
	require.NoError(t, repo.Delete(bookmark.ID))

	found, err := repo.FindByURL(userID, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, bookmark.ID, found.ID)
	assert.True(t, found.DeletedAt.Valid)
}

func TestRepository_Create_DuplicateURL(t *testing.T) {
	repo, db, userID, cleanup := setupRepo(t)
	defer cleanup()

	first := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "First"}
	require.NoError(t, repo.Create(first))

	dup := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "Second"}
	err := repo.Create(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrDuplicateURL))

	// The same URL under another account is not a duplicate.
	other, err := db.CreateUser("other", "other@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Create(&entities.Bookmark{UserID: other.ID, URL: "https://example.com", Title: "Theirs"}))
}

func TestRepository_Revive(t *testing.T) {
	repo, _, userID, cleanup := setupRepo(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "Old Title", Folder: "old"}
	require.NoError(t, repo.Create(bookmark))
	require.NoError(t, repo.Delete(bookmark.ID))

	createdAt := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Revive(bookmark.ID, "New Title", "new description", "new/folder", createdAt))

	found, err := repo.FindByURL(userID, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, bookmark.ID, found.ID)
	assert.False(t, found.DeletedAt.Valid)
	assert.Equal(t, "New Title", found.Title)
	assert.Equal(t, "new description", found.Description)
	assert.Equal(t, "new/folder", found.Folder)
	assert.Equal(t, createdAt.Unix(), found.CreatedAt.Unix())
}

func TestRepository_ListURLs_ExcludesDeleted(t *testing.T) {
	repo, _, userID, cleanup := setupRepo(t)
	defer cleanup()

	kept := &entities.Bookmark{UserID: userID, URL: "https://kept.example.com", Title: "Kept"}
	gone := &entities.Bookmark{UserID: userID, URL: "https://gone.example.com", Title: "Gone"}
	require.NoError(t, repo.Create(kept))
	require.NoError(t, repo.Create(gone))
	require.NoError(t, repo.Delete(gone.ID))

	urls, err := repo.ListURLs(userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://kept.example.com"}, urls)
}

func TestRepository_ClearTags(t *testing.T) {
	repo, db, userID, cleanup := setupRepo(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: userID, URL: "https://example.com", Title: "Example"}
	require.NoError(t, repo.Create(bookmark))

	tagRepo := tags.NewRepository(db.DB)
	tag, err := tagRepo.CreateTag("go", "#3b82f6", userID)
	require.NoError(t, err)
	require.NoError(t, tagRepo.AddTagToBookmark(bookmark.ID, tag.ID))

	require.NoError(t, repo.ClearTags(bookmark.ID))

	found, err := repo.GetByID(bookmark.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)
}

func TestRepository_Search(t *testing.T) {
	repo, _, userID, cleanup := setupRepo(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Bookmark{UserID: userID, URL: "https://go.dev", Title: "The Go Programming Language"}))
	require.NoError(t, repo.Create(&entities.Bookmark{UserID: userID, URL: "https://rust-lang.org", Title: "Rust"}))

	results, err := repo.Search("GO", userID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://go.dev", results[0].URL)
}
