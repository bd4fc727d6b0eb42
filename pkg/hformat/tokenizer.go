package hformat

import (
	"strings"
)

// EscapeChar makes the immediately following character literal, suppressing
// its role as delimiter, quote or parenthesis. It applies inside quoted
// regions too, and is consumed from the output.
const EscapeChar = '!'

// segmentType distinguishes literal template text from a directive
type segmentType int

const (
	segmentText segmentType = iota
	segmentDirective
)

// segment is one piece of a scanned template. For directives, source keeps
// the exact original text including braces so the literal-fallback policy
// can splice it back untouched.
type segment struct {
	typ    segmentType
	source string
	body   string
}

// scanTemplate splits a template into literal text and directive segments.
// Braces are never escapable: '{' always opens a directive and '}' always
// closes one. Nested or unbalanced braces are a hard input-format error.
func scanTemplate(input string) ([]segment, error) {
	var segments []segment

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("input_length", len(input)).Debug("Scanning template")
	}

	var text strings.Builder
	open := -1 // byte offset of the current '{', or -1
	for i, r := range input {
		switch r {
		case '{':
			if open >= 0 {
				return nil, NewParseError("nested '{' inside directive", "{", i)
			}
			if text.Len() > 0 {
				segments = append(segments, segment{typ: segmentText, source: text.String()})
				text.Reset()
			}
			open = i
		case '}':
			if open < 0 {
				return nil, NewParseError("'}' without matching '{'", "}", i)
			}
			segments = append(segments, segment{
				typ:    segmentDirective,
				source: input[open : i+1],
				body:   input[open+1 : i],
			})
			open = -1
		default:
			if open < 0 {
				text.WriteRune(r)
			}
		}
	}
	if open >= 0 {
		return nil, NewParseError("unclosed '{'", "{", open)
	}
	if text.Len() > 0 {
		segments = append(segments, segment{typ: segmentText, source: text.String()})
	}

	if logger.IsDebugMode() {
		logger.WithField("segment_count", len(segments)).Debug("Template scan complete")
	}

	return segments, nil
}

// chooseQuote resolves the active quote character for one directive.
// Occurrences of ' and " are counted outside nested parentheses and not
// behind the escape character; the strictly higher count wins, a tie
// selects the single quote. The losing character is ordinary text.
func chooseQuote(s string) rune {
	single, double := 0, 0
	depth := 0
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case EscapeChar:
			escaped = true
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '\'':
			if depth == 0 {
				single++
			}
		case '"':
			if depth == 0 {
				double++
			}
		}
	}
	if double > single {
		return '"'
	}
	return '\''
}

// splitTop splits s on any rune of seps found at parenthesis depth 0 and
// outside active-quote regions. Escape sequences are left intact in the
// returned tokens; dequote resolves them later.
func splitTop(s string, quote rune, seps string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	escaped := false
	for _, r := range s {
		if escaped {
			cur.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == EscapeChar:
			cur.WriteRune(r)
			escaped = true
		case r == quote:
			inQuote = !inQuote
			cur.WriteRune(r)
		case inQuote:
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case depth == 0 && strings.ContainsRune(seps, r):
			tokens = append(tokens, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	tokens = append(tokens, cur.String())
	return tokens
}

// findTopColon returns the byte offset of the first colon outside quotes,
// parentheses and escapes, or -1.
func findTopColon(s string, quote rune) int {
	depth := 0
	inQuote := false
	escaped := false
	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == EscapeChar:
			escaped = true
		case r == quote:
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ':' && depth == 0:
			return i
		}
	}
	return -1
}

// dequote resolves a raw token into plain text: active-quote delimiters are
// removed (they only protect special characters, they do not mark a type),
// and each escape sequence collapses to its literal character.
func dequote(s string, quote rune) string {
	var out strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			out.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case EscapeChar:
			escaped = true
		case quote:
			// delimiter only, dropped
		default:
			out.WriteRune(r)
		}
	}
	// A trailing escape with nothing to protect stays literal.
	if escaped {
		out.WriteRune(EscapeChar)
	}
	return out.String()
}

// balancedParens reports whether every '(' in s (outside quotes and
// escapes) has a matching ')'.
func balancedParens(s string, quote rune) bool {
	depth := 0
	inQuote := false
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == EscapeChar:
			escaped = true
		case r == quote:
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
