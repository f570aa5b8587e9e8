// Package openai implements the provider capability for OpenAI's chat
// completions API.
package openai
