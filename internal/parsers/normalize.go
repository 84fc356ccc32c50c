package parsers

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// maxTagLength caps a normalized tag name.
	maxTagLength = 50
	// longTitleThreshold triggers a validation warning, not an error.
	longTitleThreshold = 200
	// maxTagsPerBookmark triggers a validation warning, not an error.
	maxTagsPerBookmark = 20

	defaultTitle = "Untitled"
)

// entityReplacer decodes the fixed set of HTML entities browsers emit in
// bookmark exports. A single left-to-right pass, so pre-escaped sequences
// like "&amp;lt;" decode exactly once.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&#160;", " ",
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Keeps word characters, hyphens and CJK scripts; everything else is
	// stripped from tag names.
	tagDisallowed = regexp.MustCompile(`[^\w\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// NormalizeText strips a leading byte-order mark and unifies line endings
// to LF. Applied to whole documents before parsing.
func NormalizeText(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// DecodeEntities resolves the fixed entity table against s.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// NormalizeTagName canonicalizes a raw tag or folder-segment name:
// lowercased, internal whitespace collapsed to hyphens, characters outside
// word/CJK ranges stripped, capped at 50 runes. Returns "" when nothing
// usable remains.
func NormalizeTagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = tagDisallowed.ReplaceAllString(name, "")
	name = hyphenRun.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	runes := []rune(name)
	if len(runes) > maxTagLength {
		name = string(runes[:maxTagLength])
	}
	return name
}

// tagPalette is a small fixed set of visually distinct swatches. Colors
// are assigned by hashing the tag name, so the same name always maps to
// the same color within and across imports.
var tagPalette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#f59e0b", // amber
	"#84cc16", // lime
	"#22c55e", // green
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#d946ef", // fuchsia
	"#ec4899", // pink
}

// TagColor returns the deterministic palette color for a tag name. Pure
// function of the name: a rolling polynomial hash over its runes with
// 32-bit wraparound, indexed into the palette by absolute value.
func TagColor(name string) string {
	var h int32
	for _, r := range name {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return tagPalette[v%int64(len(tagPalette))]
}

// collectTags deduplicates the tag names of all bookmarks, preserving
// first-appearance order, and assigns each its deterministic color.
func collectTags(bookmarks []ParsedBookmark) []ParsedTag {
	seen := make(map[string]bool)
	tags := make([]ParsedTag, 0)
	for _, b := range bookmarks {
		for _, name := range b.Tags {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			tags = append(tags, ParsedTag{Name: name, Color: TagColor(name)})
		}
	}
	return tags
}

// appendTag adds a normalized tag to the list unless it is empty or
// already present.
func appendTag(tags []string, name string) []string {
	if name == "" {
		return tags
	}
	for _, t := range tags {
		if t == name {
			return tags
		}
	}
	return append(tags, name)
}

// validateBookmarks runs the required-field checks shared by all formats.
// Warnings are only collected when withWarnings is set.
func validateBookmarks(data *ImportData, withWarnings bool) ValidationResult {
	result := ValidationResult{
		Errors:   []ValidationIssue{},
		Warnings: []ValidationIssue{},
	}
	if data == nil {
		result.Errors = append(result.Errors, ValidationIssue{
			Field:   "bookmarks",
			Message: "no parsed data",
		})
		return result
	}

	for i, b := range data.Bookmarks {
		field := func(name string) string {
			return "bookmarks[" + strconv.Itoa(i) + "]." + name
		}

		if strings.TrimSpace(b.Title) == "" {
			result.Errors = append(result.Errors, ValidationIssue{
				Field:   field("title"),
				Message: "title must not be empty",
			})
		}
		if b.URL == "" {
			result.Errors = append(result.Errors, ValidationIssue{
				Field:   field("url"),
				Message: "url is required",
			})
		} else if u, err := url.Parse(b.URL); err != nil || u.Scheme == "" {
			result.Errors = append(result.Errors, ValidationIssue{
				Field:   field("url"),
				Message: "not a valid absolute URL",
				Value:   b.URL,
			})
		}

		if !withWarnings {
			continue
		}
		if len([]rune(b.Title)) > longTitleThreshold {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Field:   field("title"),
				Message: "title is unusually long",
				Value:   b.Title,
			})
		}
		if len(b.Tags) > maxTagsPerBookmark {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Field:   field("tags"),
				Message: "bookmark carries an unusually large number of tags",
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
