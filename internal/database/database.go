// Package database stores JSON blobs in PostgreSQL or SQLite via gorm.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgtype"
	"github.com/lildude/mapty/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL when databaseURL is a postgres URL, otherwise
// it opens (or creates) the SQLite database at sqlitePath. The schema is
// migrated before returning.
func Open(databaseURL, sqlitePath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	case databaseURL != "":
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", databaseURL)
	default:
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&model.Blob{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// BlobStore implements get/set/remove of JSON documents by name.
type BlobStore struct {
	db *gorm.DB
}

// NewBlobStore returns a store backed by db. db must already be migrated.
func NewBlobStore(db *gorm.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get returns the document stored under key, or an empty string when there is none.
func (s *BlobStore) Get(ctx context.Context, key string) (string, error) {
	var blob model.Blob
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting %q: %w", key, err)
	}
	if blob.Value.Status != pgtype.Present {
		return "", nil
	}
	return string(blob.Value.Bytes), nil
}

// Set stores value, which must be a JSON document, under key.
func (s *BlobStore) Set(ctx context.Context, key, value string) error {
	var doc pgtype.JSONB
	if err := doc.Set(value); err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	blob := model.Blob{Name: key, Value: doc}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "deleted_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Remove deletes the document stored under key. Removing a missing key is not an error.
func (s *BlobStore) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Unscoped().Where("name = ?", key).Delete(&model.Blob{}).Error
	if err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}
