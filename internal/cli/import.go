package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkrasnov/linkhive/internal/config"
	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/database/bookmarks"
	"github.com/dkrasnov/linkhive/internal/database/tags"
	"github.com/dkrasnov/linkhive/internal/parsers"
	"github.com/dkrasnov/linkhive/internal/services"
)

// ImportCommand handles importing a bookmark export file from the
// command line.
type ImportCommand struct {
	FilePath     string
	Format       string
	DatabasePath string
	Username     string

	SkipDuplicates     bool
	CreateMissingTags  bool
	PreserveTimestamps bool
	FolderAsTag        bool
	BatchSize          int

	Verbose bool
	DryRun  bool
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the bookmark export file (required)")
	fs.StringVar(&cmd.Format, "format", "", "Export format: html, markdown or json (default: inferred from the file extension)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Username, "user", config.DefaultUsername, "Account to import into (created if missing)")
	fs.BoolVar(&cmd.SkipDuplicates, "skip-duplicates", true, "Count already-saved URLs as skipped instead of failed")
	fs.BoolVar(&cmd.CreateMissingTags, "create-tags", true, "Create tags the account does not have yet")
	fs.BoolVar(&cmd.PreserveTimestamps, "preserve-timestamps", true, "Keep the timestamps recorded in the export file")
	fs.BoolVar(&cmd.FolderAsTag, "folder-as-tag", true, "Turn folder names into tags")
	fs.IntVar(&cmd.BatchSize, "batch-size", services.DefaultBatchSize, "Items processed per chunk")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and validate without saving anything")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import bookmarks from a browser or bookmark-manager export file.\n\n")
		fmt.Fprintf(os.Stderr, "Supported formats:\n")
		fmt.Fprintf(os.Stderr, "  html      Netscape bookmark file (Chrome, Firefox, Safari exports)\n")
		fmt.Fprintf(os.Stderr, "  markdown  Markdown link lists with heading folders\n")
		fmt.Fprintf(os.Stderr, "  json      Native JSON export\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import a Chrome export:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file bookmarks_8_30_26.html\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file bookmarks.md -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	if cmd.Format == "" {
		format, ok := DetectFormat(cmd.FilePath)
		if !ok {
			return fmt.Errorf("cannot infer format from %q, pass -format", filepath.Base(cmd.FilePath))
		}
		cmd.Format = format
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	fmt.Println("Bookmark Import")
	fmt.Println("===============")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	fmt.Printf("File: %s (%s)\n", cmd.FilePath, cmd.Format)

	parser, err := parsers.ForFormat(cmd.Format, parsers.Options{FolderAsTag: cmd.FolderAsTag})
	if err != nil {
		return err
	}

	data, err := parser.Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}

	fmt.Printf("Found %d bookmarks and %d distinct tags\n", len(data.Bookmarks), len(data.Tags))

	if cmd.Verbose {
		fmt.Println("\n=== Bookmarks Found ===")
		for i, b := range data.Bookmarks {
			folder := b.Folder
			if folder == "" {
				folder = "(no folder)"
			}
			fmt.Printf("%d. %s - %s [%s]\n", i+1, b.Title, b.URL, folder)
		}
	}

	validation := parser.Validate(data)
	for _, warning := range validation.Warnings {
		fmt.Printf("  [WARN] %s: %s\n", warning.Field, warning.Message)
	}
	if !validation.Valid {
		fmt.Printf("\n%d validation errors:\n", len(validation.Errors))
		for _, issue := range validation.Errors {
			fmt.Printf("  [ERROR] %s: %s\n", issue.Field, issue.Message)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Printf("\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	user, err := db.EnsureUser(cmd.Username, "")
	if err != nil {
		return fmt.Errorf("failed to resolve account %q: %w", cmd.Username, err)
	}

	importer := services.NewImportService(bookmarks.NewRepository(db.DB), tags.NewRepository(db.DB))

	session, err := db.CreateImportSession(user.ID, cmd.Format)
	if err != nil {
		return fmt.Errorf("failed to record import session: %w", err)
	}

	result := importer.Import(user.ID, data, services.ImportOptions{
		SkipDuplicates:     cmd.SkipDuplicates,
		CreateMissingTags:  cmd.CreateMissingTags,
		PreserveTimestamps: cmd.PreserveTimestamps,
		BatchSize:          cmd.BatchSize,
		DefaultTagColor:    config.DefaultTagColor,
		FolderAsTag:        cmd.FolderAsTag,
	})

	if err := db.CompleteImportSession(session, result.Total, result.Success, result.Failed, result.Skipped, result.Errors); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record session outcome: %v\n", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Imported: %d/%d\n", result.Success, result.Total)
	fmt.Printf("Skipped:  %d\n", result.Skipped)
	fmt.Printf("Failed:   %d\n", result.Failed)
	fmt.Printf("New tags: %d\n", len(result.CreatedTags))

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(result.Errors))
		for _, itemErr := range result.Errors {
			fmt.Printf("  [ERROR] item %d (%s): %s\n", itemErr.Index, itemErr.Item.URL, itemErr.Error)
		}
	}

	fmt.Println("\nImport complete!")
	return nil
}

// DetectFormat infers an import format from a file extension.
func DetectFormat(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
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
