package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// jobIDKey is the single well-known key holding the in-flight
// generation job id. One job per installation, by design: the creation
// form disables re-submission while a job is in flight.
const jobIDKey = "meme_generation_id"

// JobStore is the durable key-value persistence port for the poller.
// The stored job id must survive process restarts so polling resumes
// after a reload.
type JobStore interface {
	// JobID returns the persisted job id, or "" when none exists.
	JobID() (string, error)
	// SetJobID persists the job id.
	SetJobID(id string) error
	// ClearJobID removes the persisted job id.
	ClearJobID() error
}

// kvEntry is one row of the local key-value table.
type kvEntry struct {
	Key       string `gorm:"type:text;primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the database table name for kvEntry.
func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteStore is the default JobStore, backed by a local SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLiteStore opens (or creates) the local store at path and runs
// migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// WAL mode for better concurrency (SQLite specific)
	db.Exec("PRAGMA journal_mode=WAL")

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// JobID returns the persisted generation job id, or "".
func (s *SQLiteStore) JobID() (string, error) {
	var entry kvEntry
	err := s.db.First(&entry, "key = ?", jobIDKey).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job id: %w", err)
	}
	return entry.Value, nil
}

// SetJobID persists the generation job id.
func (s *SQLiteStore) SetJobID(id string) error {
	entry := kvEntry{Key: jobIDKey, Value: id, UpdatedAt: time.Now()}
	if err := s.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to persist job id: %w", err)
	}
	return nil
}

// ClearJobID removes the persisted generation job id.
func (s *SQLiteStore) ClearJobID() error {
	if err := s.db.Delete(&kvEntry{}, "key = ?", jobIDKey).Error; err != nil {
		return fmt.Errorf("failed to clear job id: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory JobStore for tests.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) JobID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryStore) SetJobID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

func (s *MemoryStore) ClearJobID() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	return nil
}
