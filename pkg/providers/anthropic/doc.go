// Package anthropic implements the provider capability for Anthropic's
// Messages API.
package anthropic
