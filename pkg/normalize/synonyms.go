package normalize

import "strings"

// Canonical field names of the report schema.
const (
	fieldSummary          = "summary"
	fieldKeyFindings      = "keyFindings"
	fieldActionPlan       = "actionPlan"
	fieldRisks            = "risks"
	fieldOpportunityRadar = "opportunityRadar"
	fieldRoleAttribution  = "roleAttribution"
	fieldMeta             = "meta"
)

// synonyms maps folded key forms (lowercase, separators stripped) to their
// canonical field. Providers answer in varying vocabularies, English and
// German field names in snake_case and camelCase, and this table is the
// single place that many-to-one mapping lives.
var synonyms = map[string]string{
	"summary":         fieldSummary,
	"kurzfassung":     fieldSummary,
	"zusammenfassung": fieldSummary,
	"overview":        fieldSummary,

	"keyfindings": fieldKeyFindings,
	"kernbefunde": fieldKeyFindings,
	"findings":    fieldKeyFindings,
	"keyinsights": fieldKeyFindings,

	"actionplan": fieldActionPlan,
	"actions":    fieldActionPlan,
	"nextsteps":  fieldActionPlan,
	"massnahmen": fieldActionPlan,

	"risks":       fieldRisks,
	"risiken":     fieldRisks,
	"assumptions": fieldRisks,

	"opportunityradar": fieldOpportunityRadar,
	"opportunities":    fieldOpportunityRadar,
	"chancen":          fieldOpportunityRadar,

	"roleattribution": fieldRoleAttribution,
	"roles":           fieldRoleAttribution,
	"rollen":          fieldRoleAttribution,

	"meta": fieldMeta,
}

// foldKey normalizes a raw key for synonym lookup.
func foldKey(key string) string {
	folded := strings.ToLower(strings.TrimSpace(key))
	folded = strings.NewReplacer("_", "", "-", "", " ", "").Replace(folded)
	return folded
}

// resolveKeys rewrites matched keys to their canonical names. Keys that
// match no synonym are retained separately so callers can keep them under
// an auxiliary field instead of silently losing data. When an inbound
// mapping carries both a canonical key and one of its synonyms, the
// canonical key wins; map iteration order never decides.
func resolveKeys(fields map[string]any) (canonical map[string]any, extra map[string]any) {
	canonical = make(map[string]any, len(fields))
	extra = make(map[string]any)

	for key, value := range fields {
		name, ok := synonyms[foldKey(key)]
		if !ok {
			extra[key] = value
			continue
		}
		if _, taken := canonical[name]; !taken || foldKey(key) == foldKey(name) {
			canonical[name] = value
		}
	}

	return canonical, extra
}
