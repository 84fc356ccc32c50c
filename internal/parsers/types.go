// Package parsers turns raw bookmark-export text into a flat, normalized
// record set ready for ingestion.
//
// Three formats are supported: the Netscape bookmark HTML written by
// browser export, a heading/bullet Markdown convention, and the native
// JSON export format. Each parser produces an ImportData and can validate
// it before ingestion is attempted.
package parsers

import (
	"fmt"
	"time"
)

// Supported import formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ParsedBookmark is a single bookmark recovered from an export document.
type ParsedBookmark struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"`
	Folder      string     `json:"folder,omitempty"` // slash-joined hierarchical path
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// ParsedTag is a distinct tag discovered across all bookmarks of one
// import, carrying a deterministic color swatch derived from its name.
type ParsedTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Metadata describes where and when an ImportData was produced.
type Metadata struct {
	Source     string    `json:"source"`
	TotalItems int       `json:"total_items"`
	ParsedAt   time.Time `json:"parsed_at"`
}

// ImportData is the flat result of parsing one export document.
type ImportData struct {
	Bookmarks []ParsedBookmark `json:"bookmarks"`
	Tags      []ParsedTag      `json:"tags"`
	Metadata  Metadata         `json:"metadata"`
}

// ValidationIssue describes a structural defect or oddity in one field.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationResult reports defects found in a parsed ImportData. Errors
// block ingestion; warnings do not.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// Options controls parse-time behavior shared by the HTML and Markdown
// parsers. The JSON format carries explicit tags and ignores it.
type Options struct {
	// FolderAsTag turns each folder-path segment into a tag on the
	// bookmarks nested under it.
	FolderAsTag bool
}

// Parser converts raw export text into ImportData and validates it.
type Parser interface {
	Parse(content string) (*ImportData, error)
	Validate(data *ImportData) ValidationResult
}

// ForFormat returns the parser for the given format name.
func ForFormat(format string, opts Options) (Parser, error) {
	switch format {
	case FormatHTML:
		return NewNetscapeParser(opts), nil
	case FormatMarkdown:
		return NewMarkdownParser(opts), nil
	case FormatJSON:
		return NewJSONParser(), nil
	default:
		return nil, fmt.Errorf("unsupported import format: %q", format)
	}
}
