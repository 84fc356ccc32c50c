package parsers

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func parseHTML(t *testing.T, content string, folderAsTag bool) *ImportData {
	t.Helper()
	parser := NewNetscapeParser(Options{FolderAsTag: folderAsTag})
	data, err := parser.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return data
}

func TestNetscapeParser_BasicBookmark(t *testing.T) {
	input := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://go.dev" ADD_DATE="1700000000">The Go Programming Language</A>
</DL><p>
`

	data := parseHTML(t, input, false)
	if len(data.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(data.Bookmarks))
	}

	b := data.Bookmarks[0]
	if b.URL != "https://go.dev" {
		t.Errorf("expected url 'https://go.dev', got '%s'", b.URL)
	}
	if b.Title != "The Go Programming Language" {
		t.Errorf("unexpected title: %s", b.Title)
	}
	if b.Folder != "" {
		t.Errorf("expected no folder, got '%s'", b.Folder)
	}
	if b.CreatedAt == nil {
		t.Fatal("expected a creation timestamp")
	}
	expected := time.Unix(1700000000, 0).UTC()
	if !b.CreatedAt.Equal(expected) {
		t.Errorf("expected timestamp %v, got %v", expected, b.CreatedAt)
	}
	if data.Metadata.Source != FormatHTML {
		t.Errorf("expected source 'html', got '%s'", data.Metadata.Source)
	}
	if data.Metadata.TotalItems != 1 {
		t.Errorf("expected total 1, got %d", data.Metadata.TotalItems)
	}
}

func TestNetscapeParser_NestedFolders(t *testing.T) {
	input := `<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev">Go</A>
        <DT><H3>Tools</H3>
        <DL><p>
            <DT><A HREF="https://github.com">GitHub</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://news.ycombinator.com">HN</A>
</DL><p>
`

	data := parseHTML(t, input, true)
	if len(data.Bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(data.Bookmarks))
	}

	byURL := map[string]ParsedBookmark{}
	for _, b := range data.Bookmarks {
		byURL[b.URL] = b
	}

	if got := byURL["https://go.dev"].Folder; got != "dev" {
		t.Errorf("expected folder 'dev', got '%s'", got)
	}
	if got := byURL["https://github.com"].Folder; got != "dev/tools" {
		t.Errorf("expected folder 'dev/tools', got '%s'", got)
	}
	if got := byURL["https://news.ycombinator.com"].Folder; got != "" {
		t.Errorf("expected top-level bookmark to have no folder, got '%s'", got)
	}

	gh := byURL["https://github.com"]
	if len(gh.Tags) != 2 || gh.Tags[0] != "dev" || gh.Tags[1] != "tools" {
		t.Errorf("expected folder tags [dev tools], got %v", gh.Tags)
	}
}

func TestNetscapeParser_FolderAsTagDisabled(t *testing.T) {
	input := `<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev">Go</A>
    </DL><p>
</DL><p>
`

	data := parseHTML(t, input, false)
	if len(data.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(data.Bookmarks))
	}
	b := data.Bookmarks[0]
	if b.Folder != "dev" {
		t.Errorf("folder path should survive with folder tags disabled, got '%s'", b.Folder)
	}
	if len(b.Tags) != 0 {
		t.Errorf("expected no tags, got %v", b.Tags)
	}
}

func TestNetscapeParser_TagsAttribute(t *testing.T) {
	input := `<DL><p>
    <DT><H3>Reading</H3>
    <DL><p>
        <DT><A HREF="https://example.com" TAGS="Go, Web Development,reading">Example</A>
    </DL><p>
</DL><p>
`

	data := parseHTML(t, input, true)
	b := data.Bookmarks[0]
	// Attribute tags come first, then folder segments; "reading" appears once.
	expected := []string{"go", "web-development", "reading"}
	if len(b.Tags) != len(expected) {
		t.Fatalf("expected tags %v, got %v", expected, b.Tags)
	}
	for i, tag := range expected {
		if b.Tags[i] != tag {
			t.Errorf("expected tag %q at %d, got %q", tag, i, b.Tags[i])
		}
	}
}

func TestNetscapeParser_PlaceholderFoldersNotTagged(t *testing.T) {
	input := `<DL><p>
    <DT><H3>Bookmarks Bar</H3>
    <DL><p>
        <DT><H3>News</H3>
        <DL><p>
            <DT><A HREF="https://example.com">Example</A>
        </DL><p>
    </DL><p>
</DL><p>
`

	data := parseHTML(t, input, true)
	b := data.Bookmarks[0]
	if b.Folder != "bookmarks-bar/news" {
		t.Errorf("placeholder stays in the folder path, got '%s'", b.Folder)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "news" {
		t.Errorf("placeholder must not become a tag, got %v", b.Tags)
	}
}

func TestNetscapeParser_SkipsJunkEntries(t *testing.T) {
	input := `<DL><p>
    <DT><A HREF="javascript:void(0)">Bookmarklet</A>
    <DT><A HREF="place:sort=8&maxResults=10">Most Visited</A>
    <DT><A HREF="http://separator.mayastudios.com/">---</A>
    <DT><A HREF="https://example.com">----</A>
    <DT><A HREF="">Empty</A>
    <DT><A HREF="https://kept.example.com">Kept</A>
</DL><p>
`

	data := parseHTML(t, input, false)
	if len(data.Bookmarks) != 1 {
		t.Fatalf("expected only the real bookmark to survive, got %d", len(data.Bookmarks))
	}
	if data.Bookmarks[0].URL != "https://kept.example.com" {
		t.Errorf("unexpected survivor: %s", data.Bookmarks[0].URL)
	}
}

func TestNetscapeParser_UntitledAndEntities(t *testing.T) {
	input := `<DL><p>
    <DT><A HREF="https://example.com/a"></A>
    <DT><A HREF="https://example.com/b">Q&amp;A &lt;archive&gt;</A>
</DL><p>
`

	data := parseHTML(t, input, false)
	if len(data.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(data.Bookmarks))
	}
	if data.Bookmarks[0].Title != "Untitled" {
		t.Errorf("expected 'Untitled', got '%s'", data.Bookmarks[0].Title)
	}
	if data.Bookmarks[1].Title != "Q&A <archive>" {
		t.Errorf("entities should be decoded, got '%s'", data.Bookmarks[1].Title)
	}
}

func TestNetscapeParser_EscapedMarkupStaysInert(t *testing.T) {
	input := `<DL><p>
    <DT><H3>research</H3>
    <DL><p>
        <DT><A HREF="https://example.com/a">Closing &lt;/DL&gt; by hand</A>
        <DT><A HREF="https://example.com/b">After the escaped close</A>
    </DL><p>
</DL><p>
`

	data := parseHTML(t, input, true)
	if len(data.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(data.Bookmarks))
	}
	if data.Bookmarks[0].Title != "Closing </DL> by hand" {
		t.Errorf("entities should be decoded, got '%s'", data.Bookmarks[0].Title)
	}
	for i, b := range data.Bookmarks {
		if b.Folder != "research" {
			t.Errorf("bookmark %d: escaped close tag must not end the folder, got folder '%s'", i, b.Folder)
		}
	}
}

func TestNetscapeParser_InlineDescription(t *testing.T) {
	input := `<DL><p>
    <DT><A HREF="https://example.com">Example</A>
    <DD>A site used in documentation.
</DL><p>
`

	data := parseHTML(t, input, false)
	if got := data.Bookmarks[0].Description; got != "A site used in documentation." {
		t.Errorf("unexpected description: %q", got)
	}
}

func TestNetscapeParser_UnclosedListsStillParse(t *testing.T) {
	input := `<DL><p>
    <DT><H3>Truncated</H3>
    <DL><p>
        <DT><A HREF="https://example.com">Example</A>
`

	data := parseHTML(t, input, false)
	if len(data.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark from truncated export, got %d", len(data.Bookmarks))
	}
	if data.Bookmarks[0].Folder != "truncated" {
		t.Errorf("expected folder 'truncated', got '%s'", data.Bookmarks[0].Folder)
	}
}

func TestNetscapeParser_NoBookmarks(t *testing.T) {
	data := parseHTML(t, "just some plain text, not an export at all", false)
	if len(data.Bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(data.Bookmarks))
	}
	if len(data.Tags) != 0 {
		t.Errorf("expected no tags, got %d", len(data.Tags))
	}
}

func TestNetscapeParser_BinaryInput(t *testing.T) {
	parser := NewNetscapeParser(Options{})
	_, err := parser.Parse("PK\x03\x04\x00\x00binary blob")
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
}

func TestNetscapeParser_ValidateWarnings(t *testing.T) {
	longTitle := strings.Repeat("x", 250)
	input := `<DL><p>
    <DT><A HREF="https://example.com">` + longTitle + `</A>
</DL><p>
`

	parser := NewNetscapeParser(Options{})
	data, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := parser.Validate(data)
	if !result.Valid {
		t.Fatalf("expected valid data, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Field != "bookmarks[0].title" {
		t.Errorf("unexpected warning field: %s", result.Warnings[0].Field)
	}
}

func TestNetscapeParser_ValidateErrors(t *testing.T) {
	parser := NewNetscapeParser(Options{})
	data := &ImportData{
		Bookmarks: []ParsedBookmark{
			{Title: "ok", URL: "https://example.com"},
			{Title: "", URL: "not a url"},
		},
	}

	result := parser.Validate(data)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}
