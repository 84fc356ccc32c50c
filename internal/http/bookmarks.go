package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkrasnov/linkhive/internal/entities"
)

// BookmarkStore defines database operations for serving bookmarks.
type BookmarkStore interface {
	GetAllForUser(userID uint) ([]entities.Bookmark, error)
	GetByID(id uint) (*entities.Bookmark, error)
	Search(query string, userID uint) ([]entities.Bookmark, error)
	Delete(id uint) error
}

type BookmarksController struct {
	store BookmarkStore
	tags  TagStore
}

func NewBookmarksController(store BookmarkStore, tags TagStore) *BookmarksController {
	return &BookmarksController{store: store, tags: tags}
}

// GetAllBookmarks returns all bookmarks for the current user
// GET /api/bookmarks
func (bc *BookmarksController) GetAllBookmarks(c *gin.Context) {
	bookmarks, err := bc.store.GetAllForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "get all bookmarks")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

// SearchBookmarks returns bookmarks whose title or URL matches the query
// GET /api/bookmarks/search?q=query
func (bc *BookmarksController) SearchBookmarks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	bookmarks, err := bc.store.Search(query, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "search bookmarks")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

// GetBookmark returns one bookmark with its tags
// GET /api/bookmarks/:id
func (bc *BookmarksController) GetBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookmark, err := bc.store.GetByID(id)
	if err != nil {
		respondNotFound(c, "bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// DeleteBookmark soft-deletes a bookmark
// DELETE /api/bookmarks/:id
func (bc *BookmarksController) DeleteBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete bookmark")
		return
	}
	respondSuccess(c, "bookmark deleted")
}

// RemoveTagFromBookmark detaches a tag from a bookmark
// DELETE /api/bookmarks/:id/tags/:tagId
func (bc *BookmarksController) RemoveTagFromBookmark(c *gin.Context) {
	bookmarkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	if err := bc.tags.RemoveTagFromBookmark(bookmarkID, tagID); err != nil {
		respondInternalError(c, err, "remove tag from bookmark")
		return
	}
	respondSuccess(c, "tag removed")
}
