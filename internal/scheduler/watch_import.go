// Package scheduler runs the periodic watch-directory importer: a cron
// job that picks up bookmark export files dropped into a directory and
// feeds them through the import service.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/dkrasnov/linkhive/internal/config"
	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/parsers"
	"github.com/dkrasnov/linkhive/internal/services"
)

// processedDirName is where handled files are moved so the next scan
// does not pick them up again.
const processedDirName = "processed"

// WatchImportScheduler periodically scans a directory for bookmark
// export files and imports them for the configured account.
type WatchImportScheduler struct {
	importer *services.ImportService
	db       *database.Database
	userID   uint
	cfg      config.ImportWatch
	options  services.ImportOptions

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewWatchImportScheduler(importer *services.ImportService, db *database.Database, userID uint, cfg config.ImportWatch, options services.ImportOptions) *WatchImportScheduler {
	return &WatchImportScheduler{
		importer: importer,
		db:       db,
		userID:   userID,
		cfg:      cfg,
		options:  options,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler when watching is enabled.
func (s *WatchImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Watch importer: disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		log.Printf("Watch importer: directory not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runScan()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule watch import job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Watch importer: started with schedule '%s' on %s", s.cfg.Schedule, s.cfg.Dir)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running scan.
func (s *WatchImportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cron.Remove(s.entryID)
	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Watch importer: stopped")
}

// runScan processes every recognized export file currently in the
// watch directory. Files are handled independently; one unreadable file
// does not stop the scan.
func (s *WatchImportScheduler) runScan() {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		log.Printf("Watch importer: cannot read %s: %v", s.cfg.Dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formatForFile(entry.Name())
		if !ok {
			continue
		}
		s.importFile(filepath.Join(s.cfg.Dir, entry.Name()), format)
	}
}

func (s *WatchImportScheduler) importFile(path, format string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Watch importer: cannot read %s: %v", path, err)
		return
	}

	session, err := s.db.CreateImportSession(s.userID, format)
	if err != nil {
		log.Printf("Watch importer: cannot record session for %s: %v", path, err)
		return
	}

	result, err := s.importer.ImportContent(s.userID, format, string(content), s.options)
	if err != nil {
		_ = s.db.FailImportSession(session, err)
		log.Printf("Watch importer: failed to parse %s: %v", path, err)
		s.moveProcessed(path)
		return
	}

	if err := s.db.CompleteImportSession(session, result.Total, result.Success, result.Failed, result.Skipped, result.Errors); err != nil {
		log.Printf("Watch importer: cannot complete session for %s: %v", path, err)
	}

	log.Printf("Watch importer: %s imported (%d ok, %d failed, %d skipped of %d)",
		filepath.Base(path), result.Success, result.Failed, result.Skipped, result.Total)

	s.moveProcessed(path)
}

// moveProcessed relocates a handled file into the processed/ subdir.
func (s *WatchImportScheduler) moveProcessed(path string) {
	dest := filepath.Join(s.cfg.Dir, processedDirName)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		log.Printf("Watch importer: cannot create %s: %v", dest, err)
		return
	}
	if err := os.Rename(path, filepath.Join(dest, filepath.Base(path))); err != nil {
		log.Printf("Watch importer: cannot move %s: %v", path, err)
	}
}

// formatForFile maps a file extension to an import format.
func formatForFile(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return parsers.FormatHTML, true
	case ".md", ".markdown":
		return parsers.FormatMarkdown, true
	case ".json":
		return parsers.FormatJSON, true
	default:
		return "", false
	}
}
