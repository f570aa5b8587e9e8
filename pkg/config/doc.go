// Package config loads, defaults, and validates the relay configuration.
//
// Configuration is a YAML file with environment variable overrides
// (RELAY_* variables always win over file values). The provider identity
// set and the race priority order live here as an explicit, versioned
// artifact: changing the priority order changes tie-break behaviour and
// must be treated as a breaking change.
package config
