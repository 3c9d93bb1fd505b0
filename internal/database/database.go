// Package database provides the database abstraction layer for the club API.
//
// The Database interface abstracts SurrealDB operations so that repositories
// depend on a small query surface instead of the driver:
//   - Query: multiple results (SELECT returning lists)
//   - QueryOne: a single result (SELECT by ID)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// # Transaction Support
//
// Transactions here are BATCH-BASED, not connection-level. BeginTx()
// accumulates queries in memory; Commit() wraps them in
// BEGIN TRANSACTION / COMMIT TRANSACTION and runs them as one atomic batch.
// That means there is no isolation between Add() calls before commit, and
// Rollback() just discards the accumulated queries. The renewal pass relies
// on this to write a period update and its ledger entry atomically.
//
// # Error Handling
//
// Standard errors cover the common failure cases; check them with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // record does not exist
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a batched database transaction
type Transaction interface {
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
	Commit() error
	Rollback() error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
