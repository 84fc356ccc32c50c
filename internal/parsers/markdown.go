package parsers

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MarkdownParser parses the heading/bullet Markdown convention: headings
// build the folder path (a level-N heading sets the segment at depth N
// and discards deeper segments), bullets of the form "- [title](url)"
// become bookmarks under the accumulated heading stack.
type MarkdownParser struct {
	opts Options
}

func NewMarkdownParser(opts Options) *MarkdownParser {
	return &MarkdownParser{opts: opts}
}

const maxHeadingDepth = 6

var (
	mdHeadingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	mdLinkPattern    = regexp.MustCompile(`^\s*[-*]\s+\[([^\]]+)\]\(([^)\s]+)\)\s*(?:[-–—:]\s*(.+))?$`)
)

func (p *MarkdownParser) Parse(content string) (*ImportData, error) {
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return nil, fmt.Errorf("parse markdown: %w", ErrBinaryInput)
	}
	content = strings.TrimPrefix(content, "\uFEFF")

	var segments [maxHeadingDepth]string
	var bookmarks []ParsedBookmark

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if m := mdHeadingPattern.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			segments[level-1] = NormalizeTagName(m[2])
			for i := level; i < maxHeadingDepth; i++ {
				segments[i] = ""
			}
			continue
		}

		m := mdLinkPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		url := m[2]
		if strings.HasPrefix(url, "#") {
			// In-document anchor, not a bookmark.
			continue
		}

		path := activeSegments(segments)
		bookmark := ParsedBookmark{
			Title:       strings.TrimSpace(m[1]),
			URL:         url,
			Description: strings.TrimSpace(m[3]),
			Folder:      strings.Join(path, "/"),
			Tags:        []string{},
		}
		if p.opts.FolderAsTag {
			for _, seg := range path {
				if folderPlaceholders[seg] {
					continue
				}
				bookmark.Tags = appendTag(bookmark.Tags, seg)
			}
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}

	return &ImportData{
		Bookmarks: bookmarks,
		Tags:      collectTags(bookmarks),
		Metadata: Metadata{
			Source:     FormatMarkdown,
			TotalItems: len(bookmarks),
			ParsedAt:   time.Now(),
		},
	}, nil
}

// Validate mirrors the HTML parser's required-field checks; the Markdown
// grammar cannot produce the conditions the warnings cover.
func (p *MarkdownParser) Validate(data *ImportData) ValidationResult {
	return validateBookmarks(data, false)
}

func activeSegments(segments [maxHeadingDepth]string) []string {
	var path []string
	for _, seg := range segments {
		if seg != "" {
			path = append(path, seg)
		}
	}
	return path
}
