package parsers

import (
	"testing"
	"time"
)

func TestJSONParser_Document(t *testing.T) {
	input := `{
  "bookmarks": [
    {
      "title": "The Go Programming Language",
      "url": "https://go.dev",
      "description": "Official site",
      "tags": ["Go", "programming languages"],
      "folder": "/dev/",
      "created_at": "2024-03-01T12:30:00Z"
    },
    {
      "url": "https://example.com"
    }
  ],
  "tags": [
    {"name": "go", "color": "#123456"}
  ]
}`

	parser := NewJSONParser()
	data, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(data.Bookmarks))
	}

	b := data.Bookmarks[0]
	if b.Title != "The Go Programming Language" {
		t.Errorf("unexpected title: %s", b.Title)
	}
	if b.Folder != "dev" {
		t.Errorf("expected folder 'dev', got '%s'", b.Folder)
	}
	if len(b.Tags) != 2 || b.Tags[0] != "go" || b.Tags[1] != "programming-languages" {
		t.Errorf("expected normalized tags, got %v", b.Tags)
	}
	if b.CreatedAt == nil {
		t.Fatal("expected a creation timestamp")
	}
	expected := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if !b.CreatedAt.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, b.CreatedAt)
	}

	if data.Bookmarks[1].Title != "Untitled" {
		t.Errorf("expected 'Untitled' for missing title, got '%s'", data.Bookmarks[1].Title)
	}

	// The explicit tag entry keeps its color; the other gets the palette.
	if len(data.Tags) != 2 {
		t.Fatalf("expected 2 distinct tags, got %d", len(data.Tags))
	}
	byName := map[string]string{}
	for _, tag := range data.Tags {
		byName[tag.Name] = tag.Color
	}
	if byName["go"] != "#123456" {
		t.Errorf("explicit color was not kept: %q", byName["go"])
	}
	if byName["programming-languages"] != TagColor("programming-languages") {
		t.Errorf("expected palette color, got %q", byName["programming-languages"])
	}
}

func TestJSONParser_BareArray(t *testing.T) {
	input := `[{"title": "A", "url": "https://example.com/a"}, {"title": "B", "url": "https://example.com/b"}]`

	parser := NewJSONParser()
	data, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(data.Bookmarks))
	}
	if data.Metadata.Source != FormatJSON {
		t.Errorf("expected source 'json', got '%s'", data.Metadata.Source)
	}
}

func TestJSONParser_InvalidJSON(t *testing.T) {
	parser := NewJSONParser()
	if _, err := parser.Parse(`{"bookmarks": [`); err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}

func TestJSONParser_ValidateMissingURL(t *testing.T) {
	parser := NewJSONParser()
	data, err := parser.Parse(`{"bookmarks": [{"title": "No URL"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := parser.Validate(data)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "bookmarks[0].url" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{FormatHTML, FormatMarkdown, FormatJSON} {
		if _, err := ForFormat(format, Options{}); err != nil {
			t.Errorf("ForFormat(%q) returned error: %v", format, err)
		}
	}
	if _, err := ForFormat("csv", Options{}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
