// Package tags provides database operations for tag management.
//
// This package implements the TagStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.TagStore = (*Repository)(nil)
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreateTag("reading", "#3b82f6", userID)
package tags

import (
	"gorm.io/gorm"

	"github.com/dkrasnov/linkhive/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTag creates a new tag.
func (r *Repository) CreateTag(name, color string, userID uint) (*entities.Tag, error) {
	tag := &entities.Tag{
		Name:   name,
		Color:  color,
		UserID: userID,
	}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// GetOrCreateTag retrieves or creates a tag (case-insensitive).
func (r *Repository) GetOrCreateTag(name, color string, userID uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("LOWER(name) = LOWER(?) AND user_id = ?", name, userID).First(&tag).Error
	if err == gorm.ErrRecordNotFound {
		return r.CreateTag(name, color, userID)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagsForUser retrieves all non-deleted tags for a user.
func (r *Repository) GetTagsForUser(userID uint) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Where("user_id = ?", userID).Find(&tags).Error
	return tags, err
}

// FindTagsByName resolves a batch of tag names for a user. Names without
// a persisted tag are simply absent from the result.
func (r *Repository) FindTagsByName(userID uint, names []string) ([]entities.Tag, error) {
	if len(names) == 0 {
		return []entities.Tag{}, nil
	}
	var tags []entities.Tag
	err := r.db.Where("user_id = ? AND name IN ?", userID, names).Find(&tags).Error
	return tags, err
}

// SearchTags searches tags by name (case-insensitive partial match).
func (r *Repository) SearchTags(query string, userID uint) ([]entities.Tag, error) {
	var tags []entities.Tag
	pattern := "%" + query + "%"
	err := r.db.Where("user_id = ? AND LOWER(name) LIKE LOWER(?)", userID, pattern).Find(&tags).Error
	return tags, err
}

// GetTagByID retrieves a tag by ID.
func (r *Repository) GetTagByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag soft deletes a tag.
func (r *Repository) DeleteTag(id uint) error {
	return r.db.Delete(&entities.Tag{}, id).Error
}

// AddTagToBookmark associates a tag with a bookmark. Appending an
// existing association is a no-op, not an error.
func (r *Repository) AddTagToBookmark(bookmarkID, tagID uint) error {
	var bookmark entities.Bookmark
	if err := r.db.First(&bookmark, bookmarkID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	return r.db.Model(&bookmark).Association("Tags").Append(&tag)
}

// RemoveTagFromBookmark removes a tag from a bookmark.
func (r *Repository) RemoveTagFromBookmark(bookmarkID, tagID uint) error {
	var bookmark entities.Bookmark
	if err := r.db.First(&bookmark, bookmarkID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	return r.db.Model(&bookmark).Association("Tags").Delete(&tag)
}

// GetBookmarksByTag retrieves the user's bookmarks carrying a tag.
func (r *Repository) GetBookmarksByTag(tagID, userID uint) ([]entities.Bookmark, error) {
	var list []entities.Bookmark
	err := r.db.Preload("Tags").
		Where("user_id = ? AND bookmarks.id IN (SELECT bookmark_id FROM bookmark_tags WHERE tag_id = ?)", userID, tagID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
