package services

import (
	"strings"
	"unicode"
)

// extractJSONObject strips markdown code fences and surrounding prose from
// an LLM response and returns the outermost {...} object, or "" if none.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// repairJSON fixes the formatting mistakes small models make most often:
// unquoted or half-quoted object keys and trailing commas before a closing
// brace or bracket. String contents are copied untouched.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)
	inString := false

	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(in) {
				i++
				out = append(out, in[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			out = append(out, ch)

		case ch == ',':
			// Drop a trailing comma: `, }` or `, ]`.
			j := skipSpace(in, i+1)
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			out = append(out, ch)
			out = quoteKeyAt(in, &i, out)

		case ch == '{':
			out = append(out, ch)
			out = quoteKeyAt(in, &i, out)

		default:
			out = append(out, ch)
		}
	}

	return string(out)
}

// quoteKeyAt looks past in[*i] for an object key written as `key:` or `key":`
// and emits it as `"key":`, advancing *i past the consumed runes.
func quoteKeyAt(in []rune, i *int, out []rune) []rune {
	j := skipSpace(in, *i+1)
	if j >= len(in) || !isKeyStart(in[j]) {
		return out
	}

	k := j
	for k < len(in) && isKeyRune(in[k]) {
		k++
	}

	switch {
	case k < len(in) && in[k] == ':':
		// key:
	case k+1 < len(in) && in[k] == '"' && in[k+1] == ':':
		// key":
	default:
		return out
	}

	out = append(out, in[*i+1:j]...)
	out = append(out, '"')
	out = append(out, in[j:k]...)
	out = append(out, '"')
	if in[k] == '"' {
		k++
	}
	*i = k - 1
	return out
}

func skipSpace(in []rune, i int) int {
	for i < len(in) && unicode.IsSpace(in[i]) {
		i++
	}
	return i
}

func isKeyStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
