package providers

import (
	"fmt"
	"strings"
)

// Identity is the stable, process-wide identity of a provider. It is used
// for tie-breaking in races and for tagging normalized output, so the set
// of identities and their priority order form a versioned configuration
// artifact: changing either changes winner selection and is a breaking
// change for callers.
type Identity string

// Known provider identities. Canonical names are lowercase and appear
// verbatim in normalized output (meta.provider, roleAttribution keys).
const (
	OpenAI    Identity = "openai"
	Anthropic Identity = "anthropic"
	Gemini    Identity = "gemini"
)

// KnownIdentities lists every identity this build understands, in the
// default priority order (highest priority first).
func KnownIdentities() []Identity {
	return []Identity{OpenAI, Anthropic, Gemini}
}

// String returns the canonical name.
func (id Identity) String() string {
	return string(id)
}

// ParseIdentity resolves a provider name to a known Identity.
// Matching is case-insensitive. Unknown names return a ConfigError.
func ParseIdentity(name string) (Identity, error) {
	switch Identity(strings.ToLower(strings.TrimSpace(name))) {
	case OpenAI:
		return OpenAI, nil
	case Anthropic:
		return Anthropic, nil
	case Gemini:
		return Gemini, nil
	default:
		return "", &ConfigError{
			Component: "providers",
			Field:     "identity",
			Message:   fmt.Sprintf("unknown provider identity %q", name),
		}
	}
}

// Priority is an explicit total order over provider identities. Index 0 is
// the highest priority. The order is supplied by configuration rather than
// derived from insertion position, so extending the provider set requires
// extending the order alongside it.
type Priority struct {
	rank map[Identity]int
	seq  []Identity
}

// NewPriority builds a Priority from an ordered identity sequence.
// The sequence must be non-empty and free of duplicates; violations are
// configuration faults and surface as a ConfigError.
func NewPriority(order []Identity) (*Priority, error) {
	if len(order) == 0 {
		return nil, &ConfigError{
			Component: "providers",
			Field:     "priority",
			Message:   "priority order must not be empty",
		}
	}

	rank := make(map[Identity]int, len(order))
	seq := make([]Identity, 0, len(order))
	for i, id := range order {
		if _, err := ParseIdentity(id.String()); err != nil {
			return nil, err
		}
		if _, dup := rank[id]; dup {
			return nil, &ConfigError{
				Component: "providers",
				Field:     "priority",
				Message:   fmt.Sprintf("duplicate identity %q in priority order", id),
			}
		}
		rank[id] = i
		seq = append(seq, id)
	}

	return &Priority{rank: rank, seq: seq}, nil
}

// DefaultPriority returns the built-in order openai > anthropic > gemini.
func DefaultPriority() *Priority {
	p, err := NewPriority(KnownIdentities())
	if err != nil {
		// KnownIdentities is valid by construction.
		panic(err)
	}
	return p
}

// Rank returns the priority index of an identity (0 is highest). Identities
// outside the configured order rank below every configured one.
func (p *Priority) Rank(id Identity) int {
	if r, ok := p.rank[id]; ok {
		return r
	}
	return len(p.seq)
}

// Before reports whether a outranks b.
func (p *Priority) Before(a, b Identity) bool {
	return p.Rank(a) < p.Rank(b)
}

// Order returns a copy of the configured sequence, highest priority first.
func (p *Priority) Order() []Identity {
	out := make([]Identity, len(p.seq))
	copy(out, p.seq)
	return out
}
