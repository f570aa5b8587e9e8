package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// payload is the tagged variant fed into the coercion pipeline: either a
// parsed key/value mapping, or opaque raw text.
type payload struct {
	fields     map[string]any
	raw        string
	structured bool
}

// fencedBlock matches the first code fence, optionally labeled json, and
// captures its interior.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

// extract attempts to obtain structured key/value data from an arbitrary
// input. It never fails: anything unparseable comes back as raw text.
func extract(raw any) payload {
	switch v := raw.(type) {
	case nil:
		return payload{raw: ""}
	case map[string]any:
		return payload{fields: v, structured: true}
	case string:
		return extractText(v)
	case []byte:
		return extractText(string(v))
	case json.RawMessage:
		return extractText(string(v))
	default:
		return extractText(fmt.Sprint(v))
	}
}

// extractText runs the parse ladder over a textual payload: strict JSON,
// then the interior of a fenced block, then a forgiving single-quote
// rewrite of the best candidate. Each rung degrades to the next.
func extractText(text string) payload {
	if fields, ok := parseObject(text); ok {
		return payload{fields: fields, structured: true}
	}

	candidate := text
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidate = m[1]
		if fields, ok := parseObject(candidate); ok {
			return payload{fields: fields, structured: true}
		}
	}

	if fields, ok := parseObject(requote(candidate)); ok {
		return payload{fields: fields, structured: true}
	}

	return payload{raw: text}
}

// parseObject parses text as a JSON object. Valid JSON that is not an
// object (arrays, scalars) does not count as structured data.
func parseObject(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// requote rewrites single-quoted keys and values into double-quoted form.
// The rewrite is deliberately naive; it exists to salvage Python-flavored
// pseudo-JSON, and anything it mangles simply fails the parse and falls
// through to the raw-text path.
func requote(text string) string {
	return strings.ReplaceAll(text, "'", `"`)
}
