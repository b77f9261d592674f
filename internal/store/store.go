package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres error codes the store reacts to.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqSerializationFail   = "40001"
	pqDeadlockDetected    = "40P01"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

// IsRetryable reports whether err is a transient transaction failure
// (serialization failure or deadlock) that a caller may retry.
func IsRetryable(err error) bool {
	code := pqCode(err)
	return code == pqSerializationFail || code == pqDeadlockDetected
}
