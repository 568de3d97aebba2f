package groq

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRegex   = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// ExtractJSON pulls a JSON object out of a model reply that may be wrapped
// in markdown fences or surrounded by prose. Returns "" when no usable
// object is present.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var jsonStr string
	if strings.HasPrefix(s, "{") {
		jsonStr = extractJSONObject(s)
	} else {
		startIdx := strings.Index(s, "{")
		if startIdx == -1 {
			return ""
		}
		jsonStr = extractJSONObject(s[startIdx:])
	}

	jsonStr = sanitizeJSON(jsonStr)

	if !isValidJSONObject(jsonStr) {
		return ""
	}
	return jsonStr
}

// extractJSONObject returns the balanced JSON object at the start of s.
func extractJSONObject(s string) string {
	if !strings.HasPrefix(s, "{") {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i, char := range s {
		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if char == '{' {
			depth++
		} else if char == '}' {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// Unbalanced braces: hand the whole string to the JSON parser and let
	// it report the error.
	return s
}

// sanitizeJSON fixes the JSON mistakes models make most often: trailing
// commas and unquoted keys.
func sanitizeJSON(s string) string {
	s = trailingCommaRegex.ReplaceAllString(s, "$1")
	s = unquotedKeyRegex.ReplaceAllString(s, `$1"$2":`)
	return s
}

// isValidJSONObject requires a parseable object with at least one key.
func isValidJSONObject(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 5 {
		return false
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return false
	}
	if !strings.Contains(s, `":`) {
		return false
	}
	var test map[string]interface{}
	if err := json.Unmarshal([]byte(s), &test); err != nil {
		return false
	}
	return len(test) > 0
}
