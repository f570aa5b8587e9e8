package logging

import (
	"regexp"
)

// RedactPattern is a custom redaction rule supplied by configuration.
type RedactPattern struct {
	Name        string
	Pattern     string
	Replacement string
}

// Redactor redacts secret material from log fields.
type Redactor struct {
	patterns []*redactPattern
	enabled  bool
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternGoogleKey   = "google_key"
	PatternPassword    = "password"
)

// NewRedactor creates a Redactor with the built-in secret patterns plus
// any custom patterns. Invalid custom patterns are skipped.
func NewRedactor(custom []RedactPattern) *Redactor {
	r := &Redactor{enabled: true}
	r.addDefaultPatterns()

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// addDefaultPatterns adds the built-in secret redaction patterns.
func (r *Redactor) addDefaultPatterns() {
	defaults := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Vendor API keys (OpenAI/Anthropic sk- prefixes, generic api_key assignments)
		{
			PatternAPIKey,
			`(sk-[a-zA-Z0-9\-_]+|api[-_]?key[-_:=]\s*[a-zA-Z0-9\-_]+)`,
			"sk-***",
		},

		// Bearer tokens
		{
			PatternBearerToken,
			`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			"Bearer ***",
		},

		// Google API keys
		{
			PatternGoogleKey,
			`AIza[a-zA-Z0-9\-_]{30,}`,
			"AIza***",
		},

		// Generic password fields
		{
			PatternPassword,
			`(?i)(password|passwd|secret)[-_:=]\s*\S+`,
			"$1=***",
		},
	}

	for _, d := range defaults {
		r.patterns = append(r.patterns, &redactPattern{
			name:        d.name,
			regex:       regexp.MustCompile(d.regex),
			replacement: d.replacement,
		})
	}
}

// SetEnabled toggles redaction. Disabled redactors pass values through.
func (r *Redactor) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Redact applies every pattern to the value.
func (r *Redactor) Redact(value string) string {
	if !r.enabled {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}
