// Package http exposes the JSON API: import endpoints on top of the
// import service, plus bookmark and tag management.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/services"
)

// RouterConfig carries every dependency the router wires into
// controllers, improving testability and reducing parameter count.
type RouterConfig struct {
	Database      *database.Database
	BookmarkStore BookmarkStore
	TagStore      TagStore
	ImportService *services.ImportService
	ImportOptions services.ImportOptions
	UserID        uint
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(UserMiddleware(cfg.UserID))

	health := NewHealthController(cfg.Database, cfg.Version)
	importController := NewImportController(cfg.ImportService, cfg.Database, cfg.ImportOptions)
	bookmarksController := NewBookmarksController(cfg.BookmarkStore, cfg.TagStore)
	tagsController := NewTagsController(cfg.TagStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoints
	router.POST("/api/import", importController.Import)
	router.POST("/api/import/validate", importController.Validate)
	router.GET("/api/import/sessions", importController.Sessions)

	// Bookmark endpoints
	router.GET("/api/bookmarks", bookmarksController.GetAllBookmarks)
	router.GET("/api/bookmarks/search", bookmarksController.SearchBookmarks)
	router.GET("/api/bookmarks/:id", bookmarksController.GetBookmark)
	router.DELETE("/api/bookmarks/:id", bookmarksController.DeleteBookmark)
	router.POST("/api/bookmarks/:id/tags", tagsController.AddTagToBookmark)
	router.DELETE("/api/bookmarks/:id/tags/:tagId", bookmarksController.RemoveTagFromBookmark)

	// Tag management endpoints
	router.GET("/api/tags", tagsController.GetAllTags)
	router.POST("/api/tags", tagsController.CreateTag)
	router.DELETE("/api/tags/:id", tagsController.DeleteTag)
	router.GET("/api/tags/suggest", tagsController.TagSuggest)
	router.GET("/api/tags/:id/bookmarks", tagsController.GetBookmarksByTag)

	return router
}
