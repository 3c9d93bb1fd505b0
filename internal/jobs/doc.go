// Package jobs implements background job processing for the club API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - RenewalPassJob: Daily membership renewal pass (transitions, notifications)
//   - RankingRefresher: Periodic recomputation of the club-wide ranking
//
// # Lifecycle
//
// Jobs follow a common Start/Stop pattern:
//
//	job := jobs.NewRenewalPassJob(renewalService)
//	job.Start()
//	defer job.Stop()
//
// Each job also exposes RunOnce(ctx) for manual triggering from admin
// endpoints or CLI tools.
//
// # Error Handling
//
// Jobs log errors but don't crash the application. A failed run is
// retried on the next tick.
package jobs
