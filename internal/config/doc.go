// Package config manages application configuration for the club API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - AuthConfig: JWT validation settings
//   - JobsConfig: Background job settings
//   - RenewalConfig: Renewal notification channel toggles
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT               - HTTP server port (default: 8080)
//	SERVER_ENV                - development, production, or test
//	DB_HOST / DB_PORT         - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE - Namespace and database names
//	JWT_SECRET                - HMAC signing secret
//	JWT_ISSUER                - Expected token issuer
//	RENEWAL_PASS_ENABLED      - Toggle the daily renewal pass job
//	RANKING_REFRESH_INTERVAL  - Ranking recomputation interval
//
// # Validation
//
// Validate collects every configuration problem into a single joined
// error so operators see all failures at once.
package config
