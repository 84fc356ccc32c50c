package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/parsers"
	"github.com/dkrasnov/linkhive/internal/services"
)

// ImportRequest carries one export document to ingest. Options fields
// left out of the request keep the server-configured defaults.
type ImportRequest struct {
	Format  string         `json:"format" binding:"required"`
	Content string         `json:"content" binding:"required"`
	Options *ImportOptions `json:"options"`
}

// ImportOptions mirrors services.ImportOptions with pointer fields so an
// omitted field can be told apart from an explicit zero value.
type ImportOptions struct {
	SkipDuplicates     *bool   `json:"skip_duplicates"`
	CreateMissingTags  *bool   `json:"create_missing_tags"`
	PreserveTimestamps *bool   `json:"preserve_timestamps"`
	BatchSize          *int    `json:"batch_size"`
	DefaultTagColor    *string `json:"default_tag_color"`
	FolderAsTag        *bool   `json:"folder_as_tag"`
}

// apply overlays the fields set in the request onto the defaults.
func (o *ImportOptions) apply(defaults services.ImportOptions) services.ImportOptions {
	if o == nil {
		return defaults
	}
	if o.SkipDuplicates != nil {
		defaults.SkipDuplicates = *o.SkipDuplicates
	}
	if o.CreateMissingTags != nil {
		defaults.CreateMissingTags = *o.CreateMissingTags
	}
	if o.PreserveTimestamps != nil {
		defaults.PreserveTimestamps = *o.PreserveTimestamps
	}
	if o.BatchSize != nil {
		defaults.BatchSize = *o.BatchSize
	}
	if o.DefaultTagColor != nil {
		defaults.DefaultTagColor = *o.DefaultTagColor
	}
	if o.FolderAsTag != nil {
		defaults.FolderAsTag = *o.FolderAsTag
	}
	return defaults
}

type ValidateRequest struct {
	Format  string `json:"format" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ImportController struct {
	importer       *services.ImportService
	db             *database.Database
	defaultOptions services.ImportOptions
}

func NewImportController(importer *services.ImportService, db *database.Database, defaults services.ImportOptions) *ImportController {
	return &ImportController{
		importer:       importer,
		db:             db,
		defaultOptions: defaults,
	}
}

// Import ingests a bookmark export document for the current user.
// POST /api/import
func (ic *ImportController) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "format and content are required")
		return
	}

	opts := req.Options.apply(ic.defaultOptions)

	userID := GetUserID(c)

	session, err := ic.db.CreateImportSession(userID, req.Format)
	if err != nil {
		respondInternalError(c, err, "create import session")
		return
	}

	result, err := ic.importer.ImportContent(userID, req.Format, req.Content, opts)
	if err != nil {
		_ = ic.db.FailImportSession(session, err)
		respondBadRequest(c, err.Error())
		return
	}

	if err := ic.db.CompleteImportSession(session, result.Total, result.Success, result.Failed, result.Skipped, result.Errors); err != nil {
		// The import itself succeeded; session bookkeeping is best effort.
		respondInternalError(c, err, "complete import session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"result":     result,
	})
}

// Validate parses an export document and reports structural problems
// without touching the store.
// POST /api/import/validate
func (ic *ImportController) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "format and content are required")
		return
	}

	parser, err := parsers.ForFormat(req.Format, parsers.Options{})
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	data, err := parser.Parse(req.Content)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metadata":   data.Metadata,
		"validation": parser.Validate(data),
	})
}

// Sessions lists past import runs for the current user, newest first.
// GET /api/import/sessions
func (ic *ImportController) Sessions(c *gin.Context) {
	sessions, err := ic.db.GetImportSessionsForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
