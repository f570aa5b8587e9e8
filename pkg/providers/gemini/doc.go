// Package gemini implements the provider capability for Google's Gemini
// generateContent API.
package gemini
