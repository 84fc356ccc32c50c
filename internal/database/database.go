package database

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkrasnov/linkhive/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Bookmark{},
		&entities.Tag{},
		&entities.ImportSession{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) CreateUser(username, email string) (*entities.User, error) {
	user := &entities.User{
		Username: username,
		Email:    email,
	}
	if err := d.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureUser returns the user with the given username, creating it when
// absent. Used to bootstrap the single-user default account.
func (d *Database) EnsureUser(username, email string) (*entities.User, error) {
	var user entities.User
	err := d.DB.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return d.CreateUser(username, email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := d.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := d.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) CreateImportSession(userID uint, format string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		UserID:    userID,
		Format:    format,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := d.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteImportSession records the final counters of an import run.
// itemErrors is serialized to JSON for later review.
func (d *Database) CompleteImportSession(session *entities.ImportSession, total, succeeded, failed, skipped int, itemErrors any) error {
	session.Status = entities.ImportStatusCompleted
	session.Total = total
	session.Succeeded = succeeded
	session.Failed = failed
	session.Skipped = skipped

	if itemErrors != nil {
		if payload, err := json.Marshal(itemErrors); err == nil {
			session.Errors = string(payload)
		}
	}

	now := time.Now()
	session.CompletedAt = &now
	return d.DB.Save(session).Error
}

func (d *Database) FailImportSession(session *entities.ImportSession, cause error) error {
	session.Status = entities.ImportStatusFailed
	if cause != nil {
		session.Errors = fmt.Sprintf("%q", cause.Error())
	}
	now := time.Now()
	session.CompletedAt = &now
	return d.DB.Save(session).Error
}

func (d *Database) GetImportSessionsForUser(userID uint) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := d.DB.Where("user_id = ?", userID).Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}
