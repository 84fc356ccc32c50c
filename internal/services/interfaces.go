package services

import (
	"errors"
	"time"

	"github.com/dkrasnov/linkhive/internal/entities"
	"github.com/dkrasnov/linkhive/internal/parsers"
)

// ErrDuplicateURL reports that a non-deleted bookmark with the same URL
// already exists for the user. The store's unique constraint is the
// authority; repositories translate constraint violations into this
// sentinel so callers can use errors.Is.
var ErrDuplicateURL = errors.New("bookmark with this URL already exists")

// BookmarkStore is the persistence contract the import orchestrator
// consumes. Implemented by internal/database/bookmarks.
type BookmarkStore interface {
	// FindByURL looks up a bookmark by (user, url) including soft-deleted
	// rows. Returns (nil, nil) when no row exists.
	FindByURL(userID uint, url string) (*entities.Bookmark, error)
	// Create inserts a new bookmark, returning ErrDuplicateURL when the
	// unique (user, url) constraint rejects it.
	Create(bookmark *entities.Bookmark) error
	// Revive clears the deletion marker of a soft-deleted bookmark and
	// refreshes its fields in place, reusing its id.
	Revive(id uint, title, description, folder string, createdAt time.Time) error
	// ListURLs returns the URLs of all non-deleted bookmarks of the user.
	ListURLs(userID uint) ([]string, error)
	// ClearTags removes all tag associations of a bookmark.
	ClearTags(bookmarkID uint) error
}

// TagStore is the tag persistence contract the import orchestrator
// consumes. Implemented by internal/database/tags.
type TagStore interface {
	GetTagsForUser(userID uint) ([]entities.Tag, error)
	CreateTag(name, color string, userID uint) (*entities.Tag, error)
	GetOrCreateTag(name, color string, userID uint) (*entities.Tag, error)
	// FindTagsByName resolves a batch of tag names for the user; names
	// without a persisted tag are simply absent from the result.
	FindTagsByName(userID uint, names []string) ([]entities.Tag, error)
	// AddTagToBookmark associates a tag with a bookmark; associating an
	// already-associated pair is a no-op.
	AddTagToBookmark(bookmarkID, tagID uint) error
}

// ImportOptions configures one import run.
type ImportOptions struct {
	// SkipDuplicates counts URL collisions with non-deleted bookmarks as
	// skipped instead of failed.
	SkipDuplicates bool `json:"skip_duplicates"`
	// CreateMissingTags pre-creates every parsed tag the user lacks.
	CreateMissingTags bool `json:"create_missing_tags"`
	// PreserveTimestamps uses the source document's timestamp when it
	// carries one, rather than the current time.
	PreserveTimestamps bool `json:"preserve_timestamps"`
	// BatchSize is the item count per processing chunk.
	BatchSize int `json:"batch_size"`
	// DefaultTagColor is used for tags without a parser-assigned color.
	DefaultTagColor string `json:"default_tag_color"`
	// FolderAsTag turns folder path segments into tags (HTML/Markdown).
	FolderAsTag bool `json:"folder_as_tag"`
}

// Per-item error codes surfaced in ImportResult.
const (
	CodeCreationFailed = "BOOKMARK_CREATION_FAILED"
	CodeDuplicateURL   = "DUPLICATE_URL"
)

// ImportError records one failed item with its position in the original
// bookmark list.
type ImportError struct {
	Index int                    `json:"index"`
	Item  parsers.ParsedBookmark `json:"item"`
	Error string                 `json:"error"`
	Code  string                 `json:"code"`
}

// ImportResult accumulates per-item outcomes over one import run.
// Success+Failed+Skipped always equals Total, which always equals the
// original bookmark count.
type ImportResult struct {
	Success          int           `json:"success"`
	Failed           int           `json:"failed"`
	Skipped          int           `json:"skipped"`
	Total            int           `json:"total"`
	Errors           []ImportError `json:"errors"`
	CreatedBookmarks []uint        `json:"created_bookmarks"`
	CreatedTags      []uint        `json:"created_tags"`
}
