package hformat

import (
	"strings"
)

// FormatDirective is the parsed form of one {...} unit: the field
// expression before the colon, and the ordered pipeline of function calls
// written after it. Call order is authoritative: a later call overrides an
// earlier conflicting setting.
type FormatDirective struct {
	FieldExpr string
	Calls     []FunctionCall
}

// FunctionCall is one named transformation with its raw string arguments,
// already dequoted and unescaped.
type FunctionCall struct {
	Name    string
	RawArgs []string
}

// parseDirective parses the interior of a directive (text between the
// braces). The active quote character is resolved once over the whole
// directive; the other quote is ordinary text everywhere. offset is the
// byte position of the directive in the enclosing template, used for
// error reporting.
func parseDirective(body string, offset int) (*FormatDirective, error) {
	quote := chooseQuote(body)

	fieldExpr := body
	spec := ""
	if colon := findTopColon(body, quote); colon >= 0 {
		fieldExpr = body[:colon]
		spec = body[colon+1:]
	}

	directive := &FormatDirective{
		FieldExpr: strings.TrimSpace(fieldExpr),
	}

	spec = strings.TrimSpace(spec)
	if spec == "" {
		return directive, nil
	}

	if !balancedParens(spec, quote) {
		return nil, NewParseError("unbalanced parentheses in spec", spec, offset)
	}

	for _, raw := range splitTop(spec, quote, ",;") {
		call, err := parseFunctionCall(raw, quote, offset)
		if err != nil {
			return nil, err
		}
		directive.Calls = append(directive.Calls, call)
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.DebugDirective(body, directive)
	}

	return directive, nil
}

// parseFunctionCall parses one spec segment: a name optionally followed by
// a parenthesized argument list. Missing parentheses mean a zero-argument
// call.
func parseFunctionCall(raw string, quote rune, offset int) (FunctionCall, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FunctionCall{}, NewParseError("empty function segment in spec", raw, offset)
	}

	open := topIndex(raw, quote, '(')
	if open < 0 {
		name := strings.TrimSpace(dequote(raw, quote))
		if name == "" {
			return FunctionCall{}, NewParseError("empty function name", raw, offset)
		}
		return FunctionCall{Name: name}, nil
	}

	name := strings.TrimSpace(dequote(raw[:open], quote))
	if name == "" {
		return FunctionCall{}, NewParseError("empty function name", raw, offset)
	}
	rest := raw[open+1:]
	if !strings.HasSuffix(rest, ")") {
		return FunctionCall{}, NewParseError("expected ')' to close argument list", raw, offset)
	}
	argsText := rest[:len(rest)-1]

	call := FunctionCall{Name: name}
	if strings.TrimSpace(argsText) == "" {
		return call, nil
	}
	for _, rawArg := range splitTop(argsText, quote, ",") {
		call.RawArgs = append(call.RawArgs, dequote(strings.TrimSpace(rawArg), quote))
	}
	return call, nil
}

// topIndex returns the byte offset of the first occurrence of target
// outside quotes and escapes, or -1.
func topIndex(s string, quote rune, target rune) int {
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
		case r == target:
			return i
		}
	}
	return -1
}
