// Package model defines domain entities and data structures for the club API.
//
// The model package contains all struct definitions for domain objects, the
// gamification configuration tables, and error definitions. Models are used
// across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Club member with contact info used for renewal reminders
//   - Membership: Membership tier with its renewal cadence, period and capacity
//   - Period: One renewal cycle with its window and deadline
//   - PointTransaction: Immutable point ledger entry
//   - ActivityCounters: Per-user activity tallies that back point computation
//
// # Configuration Tables
//
// Default gamification tables live here as data, not code:
//
//	cfg := model.DefaultGamificationConfig()
//	cfg.Points[model.ActionPublication].Points // 10
//
// The level ladder, badge catalog and reward catalog follow the same shape.
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Membership struct {
//	    ID     string `json:"id"`
//	    Name   string `json:"name"`
//	    Period Period `json:"period"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
