package entities

import (
	"time"

	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255" json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Bookmark struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex:idx_bookmarks_user_url" json:"user_id"`
	URL         string `gorm:"uniqueIndex:idx_bookmarks_user_url;size:2048" json:"url"`
	Title       string `gorm:"index;size:512" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Folder      string `gorm:"size:1024" json:"folder,omitempty"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Tags []Tag `gorm:"many2many:bookmark_tags;" json:"tags,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Tag struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Name      string         `gorm:"index;size:100" json:"name"`
	Color     string         `gorm:"size:16" json:"color,omitempty"` // Hex color code
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Bookmarks []Bookmark     `gorm:"many2many:bookmark_tags;" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// ImportSession records the outcome of a single import run for later review.
type ImportSession struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"index" json:"user_id"`
	Format      string       `gorm:"size:20" json:"format"` // "html", "markdown", "json"
	Status      ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	Total       int          `json:"total"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Errors      string       `gorm:"type:text" json:"errors,omitempty"` // JSON array of per-item errors
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	User        User         `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (Tag) TableName() string {
	return "tags"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
