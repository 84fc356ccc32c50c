// Package services holds the import orchestration logic: turning one
// parsed ImportData into persisted bookmarks and tags with well-defined
// partial-failure semantics. No single bad item aborts a batch.
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dkrasnov/linkhive/internal/entities"
	"github.com/dkrasnov/linkhive/internal/parsers"
)

const (
	// UncategorizedTagName is the well-known fallback tag attached to any
	// imported bookmark that resolves to zero tags, so every bookmark
	// stays discoverable by at least one tag.
	UncategorizedTagName = "uncategorized"

	// DefaultBatchSize bounds per-chunk work when the caller does not
	// configure one.
	DefaultBatchSize = 50
)

// ImportService ingests parsed bookmark data into the store. One import
// call owns its ImportData exclusively and runs as a single sequential
// flow; correctness under concurrent imports for the same user is
// delegated to the store's unique constraint.
type ImportService struct {
	bookmarks BookmarkStore
	tags      TagStore
}

func NewImportService(bookmarks BookmarkStore, tags TagStore) *ImportService {
	return &ImportService{
		bookmarks: bookmarks,
		tags:      tags,
	}
}

// ImportContent parses raw export text in the given format and ingests
// the result. The only error path is total parse failure; per-item
// ingestion failures are reported inside the ImportResult.
func (s *ImportService) ImportContent(userID uint, format, content string, opts ImportOptions) (*ImportResult, error) {
	parser, err := parsers.ForFormat(format, parsers.Options{FolderAsTag: opts.FolderAsTag})
	if err != nil {
		return nil, err
	}
	data, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}
	return s.Import(userID, data, opts), nil
}

// ValidateData runs the format's validation over already-parsed data,
// intended to run before Import is attempted.
func ValidateData(format string, data *parsers.ImportData) (parsers.ValidationResult, error) {
	parser, err := parsers.ForFormat(format, parsers.Options{})
	if err != nil {
		return parsers.ValidationResult{}, err
	}
	return parser.Validate(data), nil
}

// Import ingests one ImportData for the user. It always returns a result
// whose Success+Failed+Skipped equals the original bookmark count; item
// failures are isolated and collected, never propagated.
func (s *ImportService) Import(userID uint, data *parsers.ImportData, opts ImportOptions) *ImportResult {
	result := &ImportResult{
		Total:            len(data.Bookmarks),
		Errors:           []ImportError{},
		CreatedBookmarks: []uint{},
		CreatedTags:      []uint{},
	}

	tagIDs := s.loadTagIDs(userID)

	if opts.CreateMissingTags {
		for _, pt := range data.Tags {
			if _, ok := tagIDs[pt.Name]; ok {
				continue
			}
			color := pt.Color
			if color == "" {
				color = opts.DefaultTagColor
			}
			tag, err := s.tags.CreateTag(pt.Name, color, userID)
			if err != nil {
				log.Printf("import: failed to create tag %q: %v", pt.Name, err)
				continue
			}
			tagIDs[tag.Name] = tag.ID
			result.CreatedTags = append(result.CreatedTags, tag.ID)
		}
	}

	// Fast-path duplicate set. The per-item lookup below remains the
	// authoritative check; this only avoids one store round-trip per
	// already-known URL.
	var knownURLs map[string]bool
	if opts.SkipDuplicates {
		urls, err := s.bookmarks.ListURLs(userID)
		if err != nil {
			log.Printf("import: failed to prefetch bookmark URLs: %v", err)
		} else {
			knownURLs = make(map[string]bool, len(urls))
			for _, u := range urls {
				knownURLs[u] = true
			}
		}
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	items := data.Bookmarks
	for start := 0; start < len(items); start += batch {
		end := start + batch
		if end > len(items) {
			end = len(items)
		}
		for i := start; i < end; i++ {
			s.importOne(userID, i, items[i], opts, knownURLs, tagIDs, result)
		}
	}

	log.Printf("import: user=%d source=%s total=%d success=%d skipped=%d failed=%d",
		userID, data.Metadata.Source, result.Total, result.Success, result.Skipped, result.Failed)

	return result
}

func (s *ImportService) importOne(userID uint, index int, item parsers.ParsedBookmark, opts ImportOptions, knownURLs map[string]bool, tagIDs map[string]uint, result *ImportResult) {
	if knownURLs != nil && knownURLs[item.URL] {
		result.Skipped++
		return
	}

	id, err := s.createBookmark(userID, item, opts)
	if err != nil {
		if errors.Is(err, ErrDuplicateURL) {
			if opts.SkipDuplicates {
				// The unique constraint fired despite the prefetch; a
				// duplicate is still a duplicate.
				result.Skipped++
				return
			}
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Index: index,
				Item:  item,
				Error: err.Error(),
				Code:  CodeDuplicateURL,
			})
			return
		}
		result.Failed++
		result.Errors = append(result.Errors, ImportError{
			Index: index,
			Item:  item,
			Error: err.Error(),
			Code:  CodeCreationFailed,
		})
		return
	}
	if id == 0 {
		result.Skipped++
		return
	}

	s.associateTags(userID, id, item.Tags, opts, tagIDs, result)

	result.Success++
	result.CreatedBookmarks = append(result.CreatedBookmarks, id)
	if knownURLs != nil {
		knownURLs[item.URL] = true
	}
}

// createBookmark persists one item. Returns the bookmark id, or 0 with a
// nil error when a duplicate was silently skipped.
func (s *ImportService) createBookmark(userID uint, item parsers.ParsedBookmark, opts ImportOptions) (uint, error) {
	existing, err := s.bookmarks.FindByURL(userID, item.URL)
	if err != nil {
		return 0, fmt.Errorf("lookup bookmark: %w", err)
	}
	if existing != nil {
		if !existing.DeletedAt.Valid {
			if opts.SkipDuplicates {
				return 0, nil
			}
			return 0, fmt.Errorf("%w: %s", ErrDuplicateURL, item.URL)
		}
		// Soft-deleted row: revive in place, reusing its id. Stale tag
		// associations are cleared first so the revived bookmark carries
		// only what this import assigns.
		if err := s.bookmarks.ClearTags(existing.ID); err != nil {
			return 0, fmt.Errorf("clear stale tag associations: %w", err)
		}
		if err := s.bookmarks.Revive(existing.ID, item.Title, item.Description, item.Folder, s.createdAt(item, opts)); err != nil {
			return 0, fmt.Errorf("revive bookmark: %w", err)
		}
		return existing.ID, nil
	}

	bookmark := &entities.Bookmark{
		UserID:      userID,
		URL:         item.URL,
		Title:       item.Title,
		Description: item.Description,
		Folder:      item.Folder,
		CreatedAt:   s.createdAt(item, opts),
	}
	if err := s.bookmarks.Create(bookmark); err != nil {
		return 0, err
	}
	return bookmark.ID, nil
}

func (s *ImportService) createdAt(item parsers.ParsedBookmark, opts ImportOptions) time.Time {
	if opts.PreserveTimestamps && item.CreatedAt != nil {
		return *item.CreatedAt
	}
	return time.Now()
}

// associateTags links a successfully created or revived bookmark with its
// resolved tags. Names without a persisted tag are skipped, never created
// as a side effect; association failures degrade to a log line.
func (s *ImportService) associateTags(userID, bookmarkID uint, names []string, opts ImportOptions, tagIDs map[string]uint, result *ImportResult) {
	if len(names) == 0 {
		s.attachUncategorized(userID, bookmarkID, opts, tagIDs, result)
		return
	}

	// The preloaded map is a snapshot; resolve stragglers (created by a
	// concurrent import, or pre-existing under a different case) against
	// the store before giving up on them.
	var missing []string
	for _, name := range names {
		if _, ok := tagIDs[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		if found, err := s.tags.FindTagsByName(userID, missing); err == nil {
			for _, t := range found {
				tagIDs[t.Name] = t.ID
			}
		}
	}

	for _, name := range names {
		tagID, ok := tagIDs[name]
		if !ok {
			continue
		}
		if err := s.tags.AddTagToBookmark(bookmarkID, tagID); err != nil {
			log.Printf("import: failed to associate tag %q with bookmark %d: %v", name, bookmarkID, err)
		}
	}
}

// attachUncategorized lazily creates the fallback tag on first use within
// the import call and associates the bookmark with it.
func (s *ImportService) attachUncategorized(userID, bookmarkID uint, opts ImportOptions, tagIDs map[string]uint, result *ImportResult) {
	tagID, ok := tagIDs[UncategorizedTagName]
	if !ok {
		// The initial tag load may have failed, so check the store
		// before counting the tag as created.
		if found, err := s.tags.FindTagsByName(userID, []string{UncategorizedTagName}); err == nil && len(found) > 0 {
			tagID = found[0].ID
		} else {
			color := opts.DefaultTagColor
			if color == "" {
				color = parsers.TagColor(UncategorizedTagName)
			}
			tag, err := s.tags.GetOrCreateTag(UncategorizedTagName, color, userID)
			if err != nil {
				log.Printf("import: failed to create fallback tag: %v", err)
				return
			}
			tagID = tag.ID
			result.CreatedTags = append(result.CreatedTags, tagID)
		}
		tagIDs[UncategorizedTagName] = tagID
	}
	if err := s.tags.AddTagToBookmark(bookmarkID, tagID); err != nil {
		log.Printf("import: failed to associate fallback tag with bookmark %d: %v", bookmarkID, err)
	}
}

func (s *ImportService) loadTagIDs(userID uint) map[string]uint {
	tagIDs := make(map[string]uint)
	tags, err := s.tags.GetTagsForUser(userID)
	if err != nil {
		log.Printf("import: failed to load existing tags: %v", err)
		return tagIDs
	}
	for _, t := range tags {
		tagIDs[t.Name] = t.ID
	}
	return tagIDs
}
