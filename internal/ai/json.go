// Package ai contains the completion providers for the guest pipelines and
// the parsing layer that turns free-text model replies into schema-valid
// domain values. The parsers are the only barrier between a non-deterministic
// text generator and the typed invariants the rest of the application relies
// on; every numeric field is clamped and every list truncated before a value
// leaves this package.
package ai

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// jsonObjectRE greedily matches from the first "{" to the last "}" so a
// reply wrapped in prose or markdown fences still yields its JSON body.
var jsonObjectRE = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSONObject returns the first JSON-object-looking substring of text.
func extractJSONObject(text string) (string, bool) {
	match := jsonObjectRE.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// decodeJSONObject extracts and unmarshals the JSON object in text into out.
func decodeJSONObject(text string, out any) bool {
	raw, ok := extractJSONObject(text)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

// asFloat coerces a decoded JSON value to a float. Numbers and numeric
// strings pass through; everything else is 0.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// clampInt rounds v and coerces it into [lo, hi].
func clampInt(v any, lo, hi int) int {
	n := int(math.Round(asFloat(v)))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// clampFloat coerces v into [lo, hi].
func clampFloat(v any, lo, hi float64) float64 {
	f := asFloat(v)
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// stringList keeps the string entries of a decoded JSON array, trimmed and
// truncated to max entries.
func stringList(values []any, max int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

// optString returns a pointer to the trimmed string when it is non-empty,
// nil otherwise. Enrichment merging treats nil as "fact unknown".
func optString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "unknown") {
		return nil
	}
	return &s
}
