package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkrasnov/linkhive/internal/entities"
	"github.com/dkrasnov/linkhive/internal/parsers"
)

// TagStore defines database operations for tag management.
type TagStore interface {
	CreateTag(name, color string, userID uint) (*entities.Tag, error)
	GetOrCreateTag(name, color string, userID uint) (*entities.Tag, error)
	GetTagsForUser(userID uint) ([]entities.Tag, error)
	SearchTags(query string, userID uint) ([]entities.Tag, error)
	DeleteTag(id uint) error
	AddTagToBookmark(bookmarkID, tagID uint) error
	RemoveTagFromBookmark(bookmarkID, tagID uint) error
	GetBookmarksByTag(tagID, userID uint) ([]entities.Bookmark, error)
}

type TagsController struct {
	store TagStore
}

func NewTagsController(store TagStore) *TagsController {
	return &TagsController{store: store}
}

// GetAllTags returns all tags for the current user
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	tags, err := tc.store.GetTagsForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "get all tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CreateTag creates a new tag. The name is normalized the same way the
// importers normalize tag names; the color defaults to the name's
// palette color when not provided.
// POST /api/tags
func (tc *TagsController) CreateTag(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	name := parsers.NormalizeTagName(req.Name)
	if name == "" {
		respondBadRequest(c, "name normalizes to nothing usable")
		return
	}

	color := req.Color
	if color == "" {
		color = parsers.TagColor(name)
	}

	tag, err := tc.store.GetOrCreateTag(name, color, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "create tag")
		return
	}
	respondCreated(c, tag)
}

// DeleteTag removes a tag
// DELETE /api/tags/:id
func (tc *TagsController) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := tc.store.DeleteTag(id); err != nil {
		respondInternalError(c, err, "delete tag")
		return
	}
	respondSuccess(c, "tag deleted")
}

// TagSuggest returns tag suggestions for autocomplete
// GET /api/tags/suggest?q=query
func (tc *TagsController) TagSuggest(c *gin.Context) {
	query := c.Query("q")

	// Require minimum 2 characters for autocomplete
	if len(query) < 2 {
		c.JSON(http.StatusOK, []entities.Tag{})
		return
	}

	tags, err := tc.store.SearchTags(query, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "search tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetBookmarksByTag returns all bookmarks carrying a specific tag
// GET /api/tags/:id/bookmarks
func (tc *TagsController) GetBookmarksByTag(c *gin.Context) {
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookmarks, err := tc.store.GetBookmarksByTag(tagID, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "get bookmarks by tag")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

// AddTagToBookmark attaches a tag to a bookmark by id or by name,
// creating the tag when only a name is given.
// POST /api/bookmarks/:id/tags
func (tc *TagsController) AddTagToBookmark(c *gin.Context) {
	bookmarkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		TagID   uint   `json:"tag_id"`
		TagName string `json:"tag_name"`
	}
	_ = c.ShouldBindJSON(&req)

	var tagID uint
	if req.TagID > 0 {
		tagID = req.TagID
	} else if req.TagName != "" {
		name := parsers.NormalizeTagName(req.TagName)
		tag, err := tc.store.GetOrCreateTag(name, parsers.TagColor(name), GetUserID(c))
		if err != nil {
			respondInternalError(c, err, "get or create tag")
			return
		}
		tagID = tag.ID
	} else {
		respondBadRequest(c, "tag_id or tag_name required")
		return
	}

	if err := tc.store.AddTagToBookmark(bookmarkID, tagID); err != nil {
		respondInternalError(c, err, "add tag to bookmark")
		return
	}
	respondSuccess(c, "tag added")
}
