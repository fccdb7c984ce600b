package parse

import "errors"

// ErrNoJSON means no complete brace-delimited object was found.
var ErrNoJSON = errors.New("no JSON object found")

// ExtractJSONObject returns the first brace-delimited JSON object embedded
// in s. Models routinely prepend prose or wrap output in code fences, so the
// scan is positional: from the first '{' to its balanced closing brace,
// ignoring braces inside string literals.
func ExtractJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}
