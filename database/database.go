package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
// TranslateError is enabled so unique constraint violations surface as
// gorm.ErrDuplicatedKey; callers rely on that to resolve insert races.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&Genre{},
		&Media{},
		&Cast{},
		&Crew{},
		&Favorite{},
		&Review{},
		&ReviewLike{},
		&ContentRequest{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset drops all catalog data. Used by the reset command.
func (c *Client) Reset() error {
	for _, model := range []any{
		&ReviewLike{},
		&Review{},
		&Favorite{},
		&ContentRequest{},
		&Cast{},
		&Crew{},
		&Media{},
		&Genre{},
	} {
		if err := c.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("failed to reset table: %w", err)
		}
	}
	if err := c.db.Exec("DELETE FROM media_genres").Error; err != nil {
		return fmt.Errorf("failed to reset media_genres: %w", err)
	}
	return nil
}
