// Package records persists race outcomes and their normalized reports on
// behalf of callers that want history beyond the returned result.
//
// Two backends are provided: an in-memory store for tests and ephemeral
// deployments, and a SQLite store for single-instance deployments that
// need durability across restarts. Both are safe for concurrent use.
package records
