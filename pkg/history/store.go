package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry kinds.
const (
	KindConnected    = "connected"
	KindConnectError = "connect-error"
	KindLost         = "lost"
	KindClosed       = "closed"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("history store closed")

// Entry is one recorded connection event.
type Entry struct {
	ID           uint      `gorm:"primaryKey"`
	ConnectionID string    `gorm:"index"`
	Kind         string    `gorm:"not null"`
	Peer         string
	Profile      string
	Detail       string
	At           time.Time `gorm:"index;not null"`
}

// TableName pins the table name.
func (Entry) TableName() string { return "connection_history" }

// Store provides SQLite persistence for connection history.
type Store struct {
	db *gorm.DB

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the database at path.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores an entry. A zero At is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.ID = 0
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("record %s: %w", e.Kind, err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit of zero or
// less returns all entries.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	q := s.db.WithContext(ctx).Order("at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []Entry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// ListConnection returns the entries of one client connection, oldest first.
func (s *Store) ListConnection(ctx context.Context, connectionID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("at ASC").Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list connection %s: %w", connectionID, err)
	}
	return entries, nil
}

// Prune deletes entries older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	res := s.db.WithContext(ctx).Where("at < ?", before).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
