package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JSONParser reads the native export format: either a document with
// "bookmarks" and optional "tags" arrays, or a bare bookmark array.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

type jsonBookmark struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Folder      string   `json:"folder"`
	CreatedAt   string   `json:"created_at"`
}

type jsonTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type jsonDocument struct {
	Bookmarks []jsonBookmark `json:"bookmarks"`
	Tags      []jsonTag      `json:"tags"`
}

func (p *JSONParser) Parse(content string) (*ImportData, error) {
	content = NormalizeText(content)

	var doc jsonDocument
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &doc.Bookmarks); err != nil {
			return nil, fmt.Errorf("parse bookmark json: %w", err)
		}
	} else if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("parse bookmark json: %w", err)
	}

	bookmarks := make([]ParsedBookmark, 0, len(doc.Bookmarks))
	for _, jb := range doc.Bookmarks {
		title := strings.TrimSpace(jb.Title)
		if title == "" {
			title = defaultTitle
		}

		tags := []string{}
		for _, raw := range jb.Tags {
			tags = appendTag(tags, NormalizeTagName(raw))
		}

		bookmark := ParsedBookmark{
			Title:       title,
			URL:         strings.TrimSpace(jb.URL),
			Description: strings.TrimSpace(jb.Description),
			Tags:        tags,
			Folder:      strings.Trim(jb.Folder, "/"),
		}
		if jb.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, jb.CreatedAt); err == nil {
				t = t.UTC()
				bookmark.CreatedAt = &t
			}
		}
		bookmarks = append(bookmarks, bookmark)
	}

	// Explicit tag entries keep their color when given one; tags only
	// referenced by bookmarks get the deterministic palette color.
	explicit := make(map[string]string)
	for _, jt := range doc.Tags {
		name := NormalizeTagName(jt.Name)
		if name != "" && jt.Color != "" {
			explicit[name] = jt.Color
		}
	}
	tags := collectTags(bookmarks)
	for i := range tags {
		if color, ok := explicit[tags[i].Name]; ok {
			tags[i].Color = color
		}
	}

	return &ImportData{
		Bookmarks: bookmarks,
		Tags:      tags,
		Metadata: Metadata{
			Source:     FormatJSON,
			TotalItems: len(bookmarks),
			ParsedAt:   time.Now(),
		},
	}, nil
}

func (p *JSONParser) Validate(data *ImportData) ValidationResult {
	return validateBookmarks(data, false)
}
