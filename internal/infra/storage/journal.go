// Package storage provides the optional sqlite event journal. The journal
// is append-only and only ever read by humans doing a post-mortem; state
// reconstruction always goes through a fresh chain replay.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dexfeed/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Journal archives every processed event to SQLite.
type Journal struct {
	db *gorm.DB
}

// NewJournal opens (or creates) the journal database at path.
func NewJournal(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.EventRecord{}, &domain.TokenInfo{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Append writes one event row. payload is JSON-encoded as stored.
func (j *Journal) Append(stream string, eventID uint64, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode journal payload: %w", err)
	}

	rec := &domain.EventRecord{
		Stream:  stream,
		EventID: eventID,
		Payload: string(body),
	}
	return j.db.Create(rec).Error
}

// UpsertToken records (or refreshes) cached metadata for a traded token.
func (j *Journal) UpsertToken(info domain.TokenInfo) error {
	return j.db.Save(&info).Error
}

// Count returns the number of journaled events per stream. Diagnostic use.
func (j *Journal) Count(stream string) (int64, error) {
	var n int64
	err := j.db.Model(&domain.EventRecord{}).Where("stream = ?", stream).Count(&n).Error
	return n, err
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
