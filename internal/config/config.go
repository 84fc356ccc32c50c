package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Import
		ImportWatch
		Account
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	// Import holds the default ImportOptions applied when a request does
	// not override them.
	Import struct {
		SkipDuplicates     bool
		CreateMissingTags  bool
		PreserveTimestamps bool
		BatchSize          int
		DefaultTagColor    string
		FolderAsTag        bool
	}
	// ImportWatch configures the scheduled watch-directory importer.
	ImportWatch struct {
		Enabled  bool
		Dir      string
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}
	Account struct {
		Username string
		Email    string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Import defaults
	v.SetDefault("import_skip_duplicates", true)
	v.SetDefault("import_create_missing_tags", true)
	v.SetDefault("import_preserve_timestamps", true)
	v.SetDefault("import_batch_size", 50)
	v.SetDefault("import_default_tag_color", DefaultTagColor)
	v.SetDefault("import_folder_as_tag", true)

	// Watch-directory importer defaults
	v.SetDefault("import_watch_enabled", false)
	v.SetDefault("import_watch_dir", "./imports")
	v.SetDefault("import_watch_schedule", "*/5 * * * *")

	// Single-user account defaults
	v.SetDefault("account_username", DefaultUsername)
	v.SetDefault("account_email", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Import: Import{
			SkipDuplicates:     v.GetBool("IMPORT_SKIP_DUPLICATES"),
			CreateMissingTags:  v.GetBool("IMPORT_CREATE_MISSING_TAGS"),
			PreserveTimestamps: v.GetBool("IMPORT_PRESERVE_TIMESTAMPS"),
			BatchSize:          v.GetInt("IMPORT_BATCH_SIZE"),
			DefaultTagColor:    v.GetString("IMPORT_DEFAULT_TAG_COLOR"),
			FolderAsTag:        v.GetBool("IMPORT_FOLDER_AS_TAG"),
		},
		ImportWatch: ImportWatch{
			Enabled:  v.GetBool("IMPORT_WATCH_ENABLED"),
			Dir:      v.GetString("IMPORT_WATCH_DIR"),
			Schedule: v.GetString("IMPORT_WATCH_SCHEDULE"),
		},
		Account: Account{
			Username: v.GetString("ACCOUNT_USERNAME"),
			Email:    v.GetString("ACCOUNT_EMAIL"),
		},
	}
}
