// Package server exposes the relay over HTTP.
//
// Routes:
//
//	POST /v1/race            run a race for the posted prompt and return
//	                         the outcome plus the normalized report
//	GET  /v1/reports/latest  most recent stored race record
//	GET  /v1/reports         recent race records, newest first (?limit=N)
//	GET  /healthz            liveness probe, always 200 while the
//	                         process is up
//	GET  /readyz             readiness probe, 200 when at least one
//	                         provider reports healthy
//	GET  /metrics            Prometheus exposition (when metrics are
//	                         enabled)
//
// The server shuts down gracefully on SIGINT/SIGTERM or context
// cancellation, draining in-flight requests up to the configured
// shutdown timeout.
package server
