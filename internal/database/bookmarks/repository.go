// Package bookmarks provides database operations for bookmark management.
//
// This package implements the BookmarkStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookmarkStore = (*Repository)(nil)
//
// # Usage
//
//	repo := bookmarks.NewRepository(db)
//	bookmark, err := repo.FindByURL(userID, "https://example.com")
package bookmarks

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dkrasnov/linkhive/internal/entities"
	"github.com/dkrasnov/linkhive/internal/services"
)

// Repository handles all bookmark database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookmarks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByURL looks up a bookmark by (user, url), including soft-deleted
// rows so the caller can distinguish revival from insertion. Returns
// (nil, nil) when no row exists.
func (r *Repository) FindByURL(userID uint, url string) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark
	err := r.db.Unscoped().Where("user_id = ? AND url = ?", userID, url).First(&bookmark).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// Create inserts a new bookmark. The unique (user, url) index is the
// final arbiter of deduplication; a constraint violation is translated
// into services.ErrDuplicateURL.
func (r *Repository) Create(bookmark *entities.Bookmark) error {
	if err := r.db.Create(bookmark).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", services.ErrDuplicateURL, bookmark.URL)
		}
		return err
	}
	return nil
}

// Revive clears the deletion marker of a soft-deleted bookmark and
// refreshes its fields in place, keeping its id.
func (r *Repository) Revive(id uint, title, description, folder string, createdAt time.Time) error {
	return r.db.Unscoped().Model(&entities.Bookmark{}).Where("id = ?", id).Updates(map[string]any{
		"deleted_at":  nil,
		"title":       title,
		"description": description,
		"folder":      folder,
		"created_at":  createdAt,
		"updated_at":  time.Now(),
	}).Error
}

// ListURLs returns the URLs of all non-deleted bookmarks for a user.
func (r *Repository) ListURLs(userID uint) ([]string, error) {
	var urls []string
	err := r.db.Model(&entities.Bookmark{}).Where("user_id = ?", userID).Pluck("url", &urls).Error
	return urls, err
}

// ClearTags removes every tag association of a bookmark.
func (r *Repository) ClearTags(bookmarkID uint) error {
	return r.db.Exec("DELETE FROM bookmark_tags WHERE bookmark_id = ?", bookmarkID).Error
}

// GetByID retrieves a bookmark with its tags.
func (r *Repository) GetByID(id uint) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark
	err := r.db.Preload("Tags").First(&bookmark, id).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// GetAllForUser retrieves all non-deleted bookmarks for a user, newest
// first.
func (r *Repository) GetAllForUser(userID uint) ([]entities.Bookmark, error) {
	var list []entities.Bookmark
	err := r.db.Preload("Tags").Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Search matches bookmarks by title or URL (case-insensitive partial
// match).
func (r *Repository) Search(query string, userID uint) ([]entities.Bookmark, error) {
	var list []entities.Bookmark
	pattern := "%" + query + "%"
	err := r.db.Preload("Tags").
		Where("user_id = ? AND (LOWER(title) LIKE LOWER(?) OR LOWER(url) LIKE LOWER(?))", userID, pattern, pattern).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Delete performs a soft delete. Tag associations are kept; a later
// import of the same URL revives the row and reassigns them.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Bookmark{}, id).Error
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
