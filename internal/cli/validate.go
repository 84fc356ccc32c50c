package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkrasnov/linkhive/internal/parsers"
)

// ValidateCommand parses a bookmark export file and reports structural
// problems without touching any database.
type ValidateCommand struct {
	FilePath string
	Format   string
	Verbose  bool
}

func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

func (cmd *ValidateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the bookmark export file (required)")
	fs.StringVar(&cmd.Format, "format", "", "Export format: html, markdown or json (default: inferred from the file extension)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every parsed bookmark")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check a bookmark export file for problems before importing it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
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

func (cmd *ValidateCommand) Run() error {
	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	parser, err := parsers.ForFormat(cmd.Format, parsers.Options{})
	if err != nil {
		return err
	}

	data, err := parser.Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}

	fmt.Printf("Parsed %d bookmarks and %d distinct tags from %s\n",
		len(data.Bookmarks), len(data.Tags), filepath.Base(cmd.FilePath))

	if cmd.Verbose {
		for i, b := range data.Bookmarks {
			fmt.Printf("%d. %s - %s\n", i+1, b.Title, b.URL)
		}
	}

	result := parser.Validate(data)

	for _, warning := range result.Warnings {
		fmt.Printf("  [WARN] %s: %s\n", warning.Field, warning.Message)
	}
	for _, issue := range result.Errors {
		fmt.Printf("  [ERROR] %s: %s\n", issue.Field, issue.Message)
	}

	if !result.Valid {
		return fmt.Errorf("%d validation errors found", len(result.Errors))
	}

	fmt.Println("No validation errors found")
	return nil
}
