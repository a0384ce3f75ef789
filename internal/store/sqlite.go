package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"walletwiz/internal/logger"
)

// KVEntry is one row of the kv_entries table: a single store key and its
// JSON-encoded value. Exported so tests can auto-migrate it.
type KVEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (KVEntry) TableName() string { return "kv_entries" }

// SQLiteStore persists keys in a single local SQLite file.
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// NewSQLiteStore opens (or creates) the SQLite file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreWithDB wraps an existing GORM connection. Used by tests.
func NewSQLiteStoreWithDB(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate applies pending SQL migrations from the migrations/ directory.
func (s *SQLiteStore) Migrate() error {
	logger.Get().Info("Running store migrations...")

	mig, err := migrate.New("file://migrations", "sqlite3://"+s.path)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Store migrations completed successfully")
	return nil
}

// Get returns the value for key and whether the key exists.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var entry KVEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set replaces the whole value for key.
func (s *SQLiteStore) Set(key, value string) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&KVEntry{}).Error
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*SQLiteStore)(nil)
