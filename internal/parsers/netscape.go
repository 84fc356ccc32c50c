package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrBinaryInput is returned when the import content is not text at all.
var ErrBinaryInput = errors.New("input is not valid UTF-8 text")

// Browser exports are frequently malformed HTML (unclosed <DT>/<p>, stray
// tags), so the document is consumed by pattern matching over character
// offsets instead of a strict tree parse. The folder hierarchy is
// reconstructed positionally: every <H3> heading is tied to the first
// <DL> list that opens after it, and a bookmark's folder path is the set
// of headings whose list span encloses the bookmark's offset.
//
// Entities are decoded per extracted fragment, never over the whole
// document: an escaped </dl> inside a title must not become a structural
// close tag.
var (
	headingPattern   = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	listOpenPattern  = regexp.MustCompile(`(?i)<dl[^>]*>`)
	listClosePattern = regexp.MustCompile(`(?i)</dl\s*>`)
	anchorPattern    = regexp.MustCompile(`(?is)<a\s+([^>]*)>(.*?)</a>`)

	hrefAttr    = regexp.MustCompile(`(?i)\bhref\s*=\s*["']([^"']*)["']`)
	addDateAttr = regexp.MustCompile(`(?i)\badd_date\s*=\s*["']?(\d+)["']?`)
	tagsAttr    = regexp.MustCompile(`(?i)\btags\s*=\s*["']([^"']*)["']`)

	// Inline note on the line after the anchor: <DD>free text.
	inlineNotePattern = regexp.MustCompile(`(?is)^\s*(?:</dt>\s*)?<dd>\s*([^<]*)`)

	tagStripper   = regexp.MustCompile(`(?s)<[^>]*>`)
	dashRunTitle  = regexp.MustCompile(`^[\s\-_–—]+$`)
	junkSchemes   = []string{"javascript:", "data:", "about:", "place:", "chrome:"}
	separatorURLs = []string{"separator.mayastudios.com"}
)

// folderPlaceholders are heading names that carry no categorization value
// and never become tags.
var folderPlaceholders = map[string]bool{
	"bookmarks":         true,
	"bookmarks-bar":     true,
	"bookmarks-menu":    true,
	"bookmarks-toolbar": true,
	"other-bookmarks":   true,
	"uncategorized":     true,
	"未分类":               true,
}

// NetscapeParser parses the Netscape bookmark HTML format produced by
// browser export.
type NetscapeParser struct {
	opts Options
}

func NewNetscapeParser(opts Options) *NetscapeParser {
	return &NetscapeParser{opts: opts}
}

type folderHeading struct {
	offset int
	name   string // normalized segment, "" when nothing usable remains
	span   *listSpan
}

type listSpan struct {
	open  int
	close int
}

// Parse recovers the flat bookmark list and the inferred folder hierarchy
// from a Netscape export document. Individual malformed entries are
// skipped; a text document with no recognizable bookmarks yields an empty
// result. Only non-text input is a hard error.
func (p *NetscapeParser) Parse(content string) (*ImportData, error) {
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return nil, fmt.Errorf("parse netscape html: %w", ErrBinaryInput)
	}

	doc := NormalizeText(content)

	headings := findHeadings(doc)
	spans := findListSpans(doc)
	attachSpans(headings, spans, len(doc))

	var bookmarks []ParsedBookmark
	for _, m := range anchorPattern.FindAllStringSubmatchIndex(doc, -1) {
		offset := m[0]
		attrs := doc[m[2]:m[3]]
		inner := doc[m[4]:m[5]]
		tail := doc[m[1]:]

		href := DecodeEntities(firstMatch(hrefAttr, attrs))
		if isJunkURL(href) {
			continue
		}

		title := strings.TrimSpace(DecodeEntities(tagStripper.ReplaceAllString(inner, "")))
		if title != "" && dashRunTitle.MatchString(title) {
			// Separator entry dressed up as a bookmark.
			continue
		}
		if title == "" {
			title = defaultTitle
		}

		segments := enclosingFolders(headings, offset)

		bookmark := ParsedBookmark{
			Title:       title,
			URL:         strings.TrimSpace(href),
			Description: DecodeEntities(firstMatch(inlineNotePattern, tail)),
			Folder:      strings.Join(segments, "/"),
			Tags:        deriveTags(attrs, segments, p.opts.FolderAsTag),
		}

		if raw := firstMatch(addDateAttr, attrs); raw != "" {
			if ts, err := strconv.ParseInt(raw, 10, 64); err == nil && ts > 0 {
				t := time.Unix(ts, 0).UTC()
				bookmark.CreatedAt = &t
			}
		}

		bookmarks = append(bookmarks, bookmark)
	}

	return &ImportData{
		Bookmarks: bookmarks,
		Tags:      collectTags(bookmarks),
		Metadata: Metadata{
			Source:     FormatHTML,
			TotalItems: len(bookmarks),
			ParsedAt:   time.Now(),
		},
	}, nil
}

// Validate runs required-field checks plus non-fatal warnings.
func (p *NetscapeParser) Validate(data *ImportData) ValidationResult {
	return validateBookmarks(data, true)
}

func findHeadings(doc string) []*folderHeading {
	var headings []*folderHeading
	for _, m := range headingPattern.FindAllStringSubmatchIndex(doc, -1) {
		inner := doc[m[2]:m[3]]
		name := NormalizeTagName(DecodeEntities(tagStripper.ReplaceAllString(inner, "")))
		headings = append(headings, &folderHeading{offset: m[0], name: name})
	}
	return headings
}

// findListSpans pairs every <DL> open with its close via a stack scan.
// Lists left unclosed by a truncated export extend to the end of the
// document.
func findListSpans(doc string) []*listSpan {
	type event struct {
		offset int
		open   bool
	}
	var events []event
	for _, m := range listOpenPattern.FindAllStringIndex(doc, -1) {
		events = append(events, event{offset: m[0], open: true})
	}
	for _, m := range listClosePattern.FindAllStringIndex(doc, -1) {
		events = append(events, event{offset: m[0], open: false})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].offset < events[j].offset })

	var spans []*listSpan
	var stack []*listSpan
	for _, ev := range events {
		if ev.open {
			span := &listSpan{open: ev.offset, close: len(doc)}
			spans = append(spans, span)
			stack = append(stack, span)
			continue
		}
		if len(stack) > 0 {
			stack[len(stack)-1].close = ev.offset
			stack = stack[:len(stack)-1]
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].open < spans[j].open })
	return spans
}

// attachSpans ties each heading to the first list opening after it. A
// heading whose candidate list only opens past the next heading has no
// list of its own (an empty folder in a malformed export) and governs
// nothing.
func attachSpans(headings []*folderHeading, spans []*listSpan, docLen int) {
	for i, h := range headings {
		next := docLen
		if i+1 < len(headings) {
			next = headings[i+1].offset
		}
		for _, span := range spans {
			if span.open <= h.offset {
				continue
			}
			if span.open > next {
				break
			}
			h.span = span
			break
		}
	}
}

// enclosingFolders returns the normalized folder-path segments for a
// bookmark at the given offset: every heading whose list span encloses
// the offset, outermost first.
func enclosingFolders(headings []*folderHeading, offset int) []string {
	var segments []string
	for _, h := range headings {
		if h.span == nil || h.name == "" {
			continue
		}
		if h.span.open < offset && offset < h.span.close {
			segments = append(segments, h.name)
		}
	}
	return segments
}

// deriveTags unions the per-link TAGS attribute with the folder path
// segments (when enabled), all normalized and deduplicated.
func deriveTags(attrs string, segments []string, folderAsTag bool) []string {
	tags := []string{}
	if raw := DecodeEntities(firstMatch(tagsAttr, attrs)); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			tags = appendTag(tags, NormalizeTagName(part))
		}
	}
	if folderAsTag {
		for _, seg := range segments {
			if folderPlaceholders[seg] {
				continue
			}
			tags = appendTag(tags, seg)
		}
	}
	return tags
}

func isJunkURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return true
	}
	for _, scheme := range junkSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	for _, marker := range separatorURLs {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
