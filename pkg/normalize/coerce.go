package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// listMarkers are the leading characters stripped from list entries that
// arrived as marked-up text lines.
const listMarkers = "-*•–"

// coerceString renders any scalar as a string; nil becomes "".
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// coerceStringList coerces a value into an ordered string sequence.
// Sequences pass through (non-string elements are rendered), strings are
// split on newlines with list markers and blank lines dropped, and nil
// yields an empty slice.
func coerceStringList(v any) []string {
	switch list := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, coerceString(item))
		}
		return out
	case string:
		return splitList(list)
	default:
		return splitList(fmt.Sprint(list))
	}
}

// splitList turns marked-up text into list entries: one per line, leading
// list markers and surrounding whitespace trimmed, empties dropped.
func splitList(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		entry := strings.TrimSpace(line)
		entry = strings.TrimLeft(entry, listMarkers)
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// coerceRadar coerces a value into the opportunity-radar mapping. Strings
// wrap as the idea, mappings pass through with values rendered, and the
// result always carries the "idea" key.
func coerceRadar(v any) map[string]string {
	out := map[string]string{}

	switch radar := v.(type) {
	case nil:
	case string:
		out["idea"] = radar
	case map[string]string:
		for k, val := range radar {
			out[k] = val
		}
	case map[string]any:
		for k, val := range radar {
			out[k] = coerceString(val)
		}
	default:
		out["idea"] = fmt.Sprint(radar)
	}

	if _, ok := out["idea"]; !ok {
		out["idea"] = ""
	}
	return out
}

// coerceRoles coerces an inbound role-attribution mapping. Boolean values
// pass through; boolean-looking strings are parsed; anything else is
// skipped rather than guessed at.
func coerceRoles(v any) map[string]bool {
	out := map[string]bool{}

	switch roles := v.(type) {
	case map[string]bool:
		for k, val := range roles {
			out[k] = val
		}
	case map[string]any:
		for k, val := range roles {
			switch b := val.(type) {
			case bool:
				out[k] = b
			case string:
				if parsed, err := strconv.ParseBool(b); err == nil {
					out[k] = parsed
				}
			}
		}
	}

	return out
}

// truncate limits text to max runes, keeping whole runes.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
