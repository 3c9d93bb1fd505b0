// Package repository implements the data access layer for the club API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles the queries for a specific domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (GetByID, List, Append, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Database Connection
//
// Repositories accept a database.Database interface, allowing:
//
//   - Connection management at a higher level
//   - Batch transaction support when needed
//   - Easy testing with mock implementations
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - count() ... GROUP ALL for aggregate checks
//
// # Example Usage
//
//	repo := NewMembershipRepository(db)
//	m, err := repo.GetByID(ctx, "membership:friend")
//	if err != nil {
//	    if errors.Is(err, database.ErrNotFound) {
//	        // Handle not found
//	    }
//	    return err
//	}
package repository
