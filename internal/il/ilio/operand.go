package ilio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"viperc/internal/il/ilcore"
)

// parseError is the sum-result error the original's Expected<T> models
// (spec.md §4.4/§9): every helper either succeeds or returns one of
// these, carrying the offending line and substring. Kept as its own
// type (not a bare string) so the top-level parser can format it
// uniformly.
type parseError struct {
	line int
	msg  string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

func errf(line int, format string, args ...any) error {
	return &parseError{line: line, msg: fmt.Sprintf(format, args...)}
}

// parseTypeOperand consumes a single type token, stripping a trailing
// comma. Split out as its own helper per original_source's
// OperandParse_Type.cpp (see SPEC_FULL.md §4).
func parseTypeOperand(line int, tok string) (ilcore.Type, error) {
	tok = strings.TrimSuffix(strings.TrimSpace(tok), ",")
	t, ok := ilcore.ParseType(tok)
	if !ok {
		return 0, errf(line, "unknown type '%s'", tok)
	}
	return t, nil
}

// parseLabelOperand trims an optional leading "label" keyword and
// optional caret prefix, per spec.md §4.4 item 2.
func parseLabelOperand(line int, tok string) (string, error) {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "label ")
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "^")
	if tok == "" {
		return "", errf(line, "malformed branch target")
	}
	return tok, nil
}

// parseConstOperand classifies a constant token: quoted string,
// true/false, null, or numeric (float vs. int based on shape), per
// spec.md §4.4 item 3.
func parseConstOperand(line int, tok string) (ilcore.Value, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ilcore.Value{}, errf(line, "empty constant operand")
	}
	if tok[0] == '"' {
		end := findClosingQuote(tok)
		if end < 0 {
			return ilcore.Value{}, errf(line, "unterminated string constant '%s'", tok)
		}
		decoded, ok := ilcore.DecodeEscapes(tok[1:end])
		if !ok {
			return ilcore.Value{}, errf(line, "invalid escape in string constant '%s'", tok)
		}
		return ilcore.ConstStr(decoded), nil
	}
	lower := strings.ToLower(tok)
	switch lower {
	case "true":
		return ilcore.ConstBool(true), nil
	case "false":
		return ilcore.ConstBool(false), nil
	case "null":
		return ilcore.NullPtr(), nil
	}
	if looksFloat(lower) {
		f, err := parseFloatLiteral(lower)
		if err != nil {
			return ilcore.Value{}, errf(line, "invalid float constant '%s'", tok)
		}
		return ilcore.ConstFloat(f), nil
	}
	i, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return ilcore.Value{}, errf(line, "invalid integer constant '%s'", tok)
	}
	return ilcore.ConstInt(i), nil
}

func findClosingQuote(tok string) int {
	for i := 1; i < len(tok); i++ {
		if tok[i] == '\\' {
			i++
			continue
		}
		if tok[i] == '"' {
			return i
		}
	}
	return -1
}

// looksFloat decides, per spec.md §4.4 item 3, whether a numeric token
// should be parsed as f64: contains '.', contains 'e'/'E' outside a hex
// prefix, or matches nan/inf case-insensitively.
func looksFloat(lower string) bool {
	if lower == "nan" || lower == "inf" || lower == "-inf" || lower == "+inf" {
		return true
	}
	if strings.Contains(lower, ".") {
		return true
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "-0x") || strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "-0b") {
		return false
	}
	return strings.ContainsAny(lower, "eE")
}

func parseFloatLiteral(lower string) (float64, error) {
	switch lower {
	case "nan":
		return math.NaN(), nil
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(lower, 64)
}

// parseValueOperand dispatches %temp / @global / constant forms, per
// spec.md §4.4 item 4. fn may be nil when no function context exists
// yet (module-level globals never carry temp operands).
func parseValueOperand(line int, tok string, fn *ilcore.Function) (ilcore.Value, error) {
	tok = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(tok), ","))
	if tok == "" {
		return ilcore.Value{}, errf(line, "empty operand")
	}
	switch {
	case strings.HasPrefix(tok, "%"):
		name := tok[1:]
		if strings.HasPrefix(name, "t") {
			if id, err := strconv.ParseUint(name[1:], 10, 32); err == nil {
				if fn != nil {
					fn.NoteTemp(uint32(id))
				}
				return ilcore.Temp(uint32(id)), nil
			}
		}
		return ilcore.Value{}, errf(line, "unknown temp '%s'", tok)
	case strings.HasPrefix(tok, "@"):
		return ilcore.GlobalAddr(tok[1:]), nil
	case strings.HasPrefix(tok, "["):
		return ilcore.Value{}, errf(line, "unsupported memory operand '%s'", tok)
	default:
		return parseConstOperand(line, tok)
	}
}

func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"':
			i++
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}
