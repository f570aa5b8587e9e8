package normalize

import (
	"log/slog"

	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/telemetry/metrics"
)

// DefaultSummaryLimit bounds the summary synthesized from an unparseable
// payload, in runes. The full payload is still preserved under RawText.
const DefaultSummaryLimit = 500

// Normalizer converts raw provider payloads into Reports. It carries the
// set of configured identities so role attribution can default every known
// provider explicitly.
type Normalizer struct {
	identities   []providers.Identity
	summaryLimit int
	metrics      *metrics.ProviderMetrics
}

// New creates a Normalizer for the given configured identities.
// Metrics may be nil.
func New(identities []providers.Identity, pm *metrics.ProviderMetrics) *Normalizer {
	return &Normalizer{
		identities:   identities,
		summaryLimit: DefaultSummaryLimit,
		metrics:      pm,
	}
}

// Normalize converts a raw provider payload plus the winning identity into
// a Report. It is total: for any input (nil, non-string garbage, prose,
// broken JSON) it returns a valid Report and never fails.
func (n *Normalizer) Normalize(raw any, winner providers.Identity) Report {
	p := extract(raw)

	var rep Report
	var inboundRoles map[string]bool

	if p.structured {
		canonical, extra := resolveKeys(p.fields)

		rep.Summary = coerceString(canonical[fieldSummary])
		rep.KeyFindings = coerceStringList(canonical[fieldKeyFindings])
		rep.ActionPlan = coerceStringList(canonical[fieldActionPlan])
		rep.Risks = coerceStringList(canonical[fieldRisks])
		rep.OpportunityRadar = coerceRadar(canonical[fieldOpportunityRadar])
		inboundRoles = coerceRoles(canonical[fieldRoleAttribution])

		if len(extra) > 0 {
			rep.Extra = extra
		}
	} else {
		// Fallback synthesis: the payload defeated every parser, so the
		// report degrades to raw text rather than failing.
		rep.Summary = truncate(p.raw, n.summaryLimit)
		rep.KeyFindings = []string{}
		rep.ActionPlan = []string{}
		rep.Risks = []string{}
		rep.OpportunityRadar = map[string]string{"idea": ""}
		rep.RawText = p.raw

		n.metrics.RecordFallback()
		slog.Debug("payload normalized via raw-text fallback",
			"provider", winner,
			"payload_len", len(p.raw),
		)
	}

	rep.RoleAttribution = n.mergeRoles(inboundRoles, winner)
	// Meta always names the actual winner, whatever the payload claims.
	rep.Meta = map[string]string{"provider": winner.String()}

	return rep
}

// mergeRoles builds the role-attribution mapping: configured identities
// default to false, inbound entries are preserved as given even when they
// name providers outside the configured set, and the winner is forced to
// true last.
func (n *Normalizer) mergeRoles(inbound map[string]bool, winner providers.Identity) map[string]bool {
	out := make(map[string]bool, len(n.identities)+len(inbound)+1)

	for _, id := range n.identities {
		out[id.String()] = false
	}
	for name, val := range inbound {
		out[name] = val
	}
	out[winner.String()] = true

	return out
}
