// Package normalize converts an arbitrary provider payload into the fixed
// consumer-facing report schema.
//
// Providers return whatever shape their model produced: strict JSON, JSON
// buried in prose or code fences, single-quoted pseudo-JSON, or plain
// text. Normalization is a total function over all of it: extraction and
// synonym resolution each degrade gracefully, and a payload that defeats
// every parser still yields a valid report with the raw text preserved.
// Normalization never fails; it degrades.
package normalize
