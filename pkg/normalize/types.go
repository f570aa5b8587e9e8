package normalize

// Report is the fixed output schema. Every mandatory field is always
// populated after normalization, regardless of how malformed the input
// was: string fields default to "", list fields to empty slices, and the
// mapping fields to their minimal shapes.
type Report struct {
	// Summary is the headline text. When structured extraction failed it
	// holds a truncated copy of the raw payload.
	Summary string `json:"summary"`

	// KeyFindings, ActionPlan, and Risks are ordered string lists.
	KeyFindings []string `json:"keyFindings"`
	ActionPlan  []string `json:"actionPlan"`
	Risks       []string `json:"risks"`

	// OpportunityRadar always carries at least the "idea" key.
	OpportunityRadar map[string]string `json:"opportunityRadar"`

	// RoleAttribution maps provider names to participation. The winning
	// provider is always true; inbound entries are preserved as given.
	RoleAttribution map[string]bool `json:"roleAttribution"`

	// Meta carries at least the winning provider's canonical name under
	// "provider", overriding anything in the raw payload.
	Meta map[string]string `json:"meta"`

	// RawText preserves the original payload verbatim, only when it could
	// not be parsed as structured data.
	RawText string `json:"rawText,omitempty"`

	// Extra retains structured keys that matched no canonical field.
	Extra map[string]any `json:"extra,omitempty"`
}
