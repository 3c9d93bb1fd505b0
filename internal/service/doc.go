// Package service implements the business logic layer for the club API.
//
// The service package contains the renewal and gamification domain logic and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Pure Computation
//
// The date and point arithmetic at the heart of both services is exposed as
// pure functions (PeriodFor, ComputeNextPeriod, ComputePoints, ResolveLevel,
// ComputeRanking) so it can be tested without any storage in place.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrMembershipNotFound = errors.New("membership not found")
//	    ErrRenewalTooLate     = errors.New("renewal window has closed")
//	)
//
// # Example Usage
//
//	svc := NewRenewalService(RenewalServiceConfig{
//	    Memberships: membershipRepository,
//	    Users:       userRepository,
//	    Sender:      NewLogSender(),
//	})
//	elig, err := svc.CanRenew(ctx, userID, membershipID, time.Now())
package service
