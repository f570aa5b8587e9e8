// Package logging configures the process-wide slog logger and provides
// secret redaction at the log boundary.
//
// Redaction is a pure string transform applied to every record before it
// reaches the handler, so API keys and bearer tokens that leak into error
// messages never reach the log output.
package logging
