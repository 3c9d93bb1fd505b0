// Package middleware provides HTTP middleware for the club API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - AdminAuth: Auth plus admin claim check for admin endpoints
//   - RateLimit: Request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS: request plumbing
//
// # Authentication
//
// The auth middleware validates HS256 JWT tokens and extracts user
// information:
//
//	validator := middleware.NewTokenValidator(secret, issuer)
//	mux.Handle("GET /v1/gamification/me", middleware.Auth(validator)(handler))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Rate Limiting
//
// A token bucket limiter keyed by user ID (or remote address for anonymous
// requests) protects against abuse. Limits surface through the
// X-RateLimit-* response headers.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - IsAdmin(ctx): Returns whether the caller holds the admin claim
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
