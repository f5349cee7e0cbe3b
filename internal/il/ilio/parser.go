package ilio

import (
	"strconv"
	"strings"

	"viperc/internal/il/ilcore"
)

// Parse implements the textual IL grammar of spec.md §4.4/§6. It
// propagates the first parse failure to the caller, per spec.md §7
// ("the IL textual parser propagates the first failure to its caller
// because its inputs are machine-generated; partial IR is not
// useful"), grounded on original_source/src/il/io/ModuleParser.cpp's
// directive dispatch and FunctionParser's block/instruction loop.
func Parse(text string) (*ilcore.Module, error) {
	text = strings.TrimPrefix(text, "﻿")
	rawLines := strings.Split(text, "\n")

	var mod *ilcore.Module
	i := 0
	lineNo := 0

	next := func() (string, bool) {
		for i < len(rawLines) {
			lineNo++
			raw := rawLines[i]
			i++
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if mod == nil {
			if !strings.HasPrefix(line, "il ") && line != "il" {
				return nil, errf(lineNo, "missing 'il' version directive")
			}
			v := strings.TrimSpace(strings.TrimPrefix(line, "il"))
			if v == "" {
				return nil, errf(lineNo, "missing 'il' version directive")
			}
			mod = ilcore.NewModule(v)
			continue
		}
		if err := dispatchDirective(mod, line, lineNo, rawLines, &i, &lineNo); err != nil {
			return nil, err
		}
	}
	if mod == nil {
		return nil, errf(0, "missing 'il' version directive")
	}
	return mod, nil
}

func dispatchDirective(mod *ilcore.Module, line string, lineNo int, rawLines []string, i *int, outerLineNo *int) error {
	switch {
	case strings.HasPrefix(line, "target "):
		t, err := parseQuoted(lineNo, strings.TrimSpace(strings.TrimPrefix(line, "target ")))
		if err != nil {
			return err
		}
		mod.Target = t
	case strings.HasPrefix(line, "extern "):
		return parseExtern(mod, line, lineNo)
	case strings.HasPrefix(line, "global "):
		return parseGlobalDirective(mod, line, lineNo)
	case strings.HasPrefix(line, "func "):
		return parseFunction(mod, line, lineNo, rawLines, i, outerLineNo)
	default:
		return errf(lineNo, "unrecognized directive '%s'", line)
	}
	return nil
}

func parseQuoted(lineNo int, s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errf(lineNo, "expected quoted string, got '%s'", s)
	}
	decoded, ok := ilcore.DecodeEscapes(s[1 : len(s)-1])
	if !ok {
		return "", errf(lineNo, "invalid escape in '%s'", s)
	}
	return decoded, nil
}

func parseExtern(mod *ilcore.Module, line string, lineNo int) error {
	at := strings.Index(line, "@")
	if at < 0 {
		return errf(lineNo, "missing '@'")
	}
	lp := strings.Index(line[at:], "(")
	if lp < 0 {
		return errf(lineNo, "missing '('")
	}
	lp += at
	rp := strings.Index(line[lp:], ")")
	if rp < 0 {
		return errf(lineNo, "missing ')'")
	}
	rp += lp
	arrow := strings.Index(line[rp:], "->")
	if arrow < 0 {
		return errf(lineNo, "missing '->'")
	}
	arrow += rp

	name := strings.TrimSpace(line[at+1 : lp])
	if name == "" {
		return errf(lineNo, "missing extern name")
	}
	var params []ilcore.Type
	paramStr := strings.TrimSpace(line[lp+1 : rp])
	if paramStr != "" {
		for _, raw := range strings.Split(paramStr, ",") {
			t, err := parseTypeOperand(lineNo, raw)
			if err != nil {
				return err
			}
			params = append(params, t)
		}
	}
	retTy, err := parseTypeOperand(lineNo, line[arrow+2:])
	if err != nil {
		return err
	}
	mod.Externs = append(mod.Externs, ilcore.Extern{Name: name, RetType: retTy, Params: params})
	return nil
}

func parseGlobalDirective(mod *ilcore.Module, line string, lineNo int) error {
	at := strings.Index(line, "@")
	if at < 0 {
		return errf(lineNo, "missing '@'")
	}
	eq := strings.Index(line[at:], "=")
	if eq < 0 {
		return errf(lineNo, "missing '='")
	}
	eq += at
	name := strings.TrimSpace(line[at+1 : eq])
	if name == "" {
		return errf(lineNo, "missing global name")
	}
	rhs := strings.TrimSpace(line[eq+1:])
	if strings.HasPrefix(rhs, "\"") {
		s, err := parseQuoted(lineNo, rhs)
		if err != nil {
			return err
		}
		mod.Globals = append(mod.Globals, ilcore.Global{
			Name: name, Type: ilcore.Str,
			Init: ilcore.GlobalInit{IsString: true, Str: s},
		})
		return nil
	}
	val, err := parseConstOperand(lineNo, rhs)
	if err != nil {
		return err
	}
	typ := ilcore.I64
	if val.Kind == ilcore.KindConstFloat {
		typ = ilcore.F64
	}
	mod.Globals = append(mod.Globals, ilcore.Global{Name: name, Type: typ, Init: ilcore.GlobalInit{Scalar: val}})
	return nil
}

// parseFunction parses `func @name(params) -> type {` and its body up
// to the matching `}` line. rawLines/i/outerLineNo let it keep
// advancing the same cursor the top-level directive loop uses.
func parseFunction(mod *ilcore.Module, header string, lineNo int, rawLines []string, i *int, outerLineNo *int) error {
	at := strings.Index(header, "@")
	if at < 0 {
		return errf(lineNo, "missing '@' in function header")
	}
	lp := strings.Index(header[at:], "(")
	if lp < 0 {
		return errf(lineNo, "missing '(' in function header")
	}
	lp += at
	rp := strings.Index(header[lp:], ")")
	if rp < 0 {
		return errf(lineNo, "missing ')' in function header")
	}
	rp += lp
	arrow := strings.Index(header[rp:], "->")
	if arrow < 0 {
		return errf(lineNo, "missing '->' in function header")
	}
	arrow += rp
	brace := strings.LastIndex(header, "{")
	if brace < 0 || brace < arrow {
		return errf(lineNo, "missing '{' in function header")
	}

	name := strings.TrimSpace(header[at+1 : lp])
	var params []ilcore.Param
	paramStr := strings.TrimSpace(header[lp+1 : rp])
	if paramStr != "" {
		for _, raw := range strings.Split(paramStr, ",") {
			id, t, err := parseTypedParam(lineNo, raw)
			if err != nil {
				return err
			}
			params = append(params, ilcore.Param{ID: id, Type: t})
		}
	}
	retTy, err := parseTypeOperand(lineNo, strings.TrimSpace(header[arrow+2:brace]))
	if err != nil {
		return err
	}

	fn := ilcore.Function{Name: name, RetType: retTy, Params: params}
	for _, p := range params {
		fn.NoteTemp(p.ID)
	}

	for {
		var line string
		var ok bool
		for {
			if *i >= len(rawLines) {
				ok = false
				break
			}
			*outerLineNo++
			raw := rawLines[*i]
			*i++
			line = strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
				continue
			}
			ok = true
			break
		}
		if !ok {
			return errf(*outerLineNo, "unterminated function '%s'", name)
		}
		if line == "}" {
			break
		}
		if err := parseBlockOrInstr(&fn, line, *outerLineNo, rawLines, i, outerLineNo); err != nil {
			return err
		}
	}
	mod.Functions = append(mod.Functions, fn)
	return nil
}

func parseTypedParam(lineNo int, raw string) (uint32, ilcore.Type, error) {
	raw = strings.TrimSpace(raw)
	colon := strings.Index(raw, ":")
	if colon < 0 {
		return 0, 0, errf(lineNo, "malformed parameter '%s'", raw)
	}
	name := strings.TrimSpace(raw[:colon])
	t, err := parseTypeOperand(lineNo, raw[colon+1:])
	if err != nil {
		return 0, 0, err
	}
	if !strings.HasPrefix(name, "%t") {
		return 0, 0, errf(lineNo, "malformed parameter name '%s'", name)
	}
	id, err := strconv.ParseUint(name[2:], 10, 32)
	if err != nil {
		return 0, 0, errf(lineNo, "malformed parameter id '%s'", name)
	}
	return uint32(id), t, nil
}

// parseBlockOrInstr dispatches a line inside a function body to either
// a new block header (`^label(params):`) or an instruction appended to
// the current (last) block.
func parseBlockOrInstr(fn *ilcore.Function, line string, lineNo int, rawLines []string, i *int, outerLineNo *int) error {
	if strings.HasPrefix(line, "^") {
		label, params, err := parseBlockHeader(lineNo, line)
		if err != nil {
			return err
		}
		for _, p := range params {
			fn.NoteTemp(p.ID)
		}
		fn.Blocks = append(fn.Blocks, ilcore.Block{Label: label, Params: params})
		return nil
	}
	if len(fn.Blocks) == 0 {
		return errf(lineNo, "instruction outside of any block")
	}
	instr, err := parseInstruction(fn, line, lineNo)
	if err != nil {
		return err
	}
	last := &fn.Blocks[len(fn.Blocks)-1]
	last.Instrs = append(last.Instrs, *instr)
	return nil
}

func parseBlockHeader(lineNo int, line string) (string, []ilcore.Param, error) {
	if !strings.HasSuffix(line, ":") {
		return "", nil, errf(lineNo, "malformed block header '%s'", line)
	}
	body := line[1 : len(line)-1] // strip '^' and trailing ':'
	lp := strings.Index(body, "(")
	if lp < 0 {
		return strings.TrimSpace(body), nil, nil
	}
	rp := strings.LastIndex(body, ")")
	if rp < 0 {
		return "", nil, errf(lineNo, "malformed block header '%s'", line)
	}
	label := strings.TrimSpace(body[:lp])
	paramStr := strings.TrimSpace(body[lp+1 : rp])
	if paramStr == "" {
		return label, nil, nil
	}
	var params []ilcore.Param
	for _, raw := range strings.Split(paramStr, ",") {
		id, t, err := parseTypedParam(lineNo, raw)
		if err != nil {
			return "", nil, err
		}
		params = append(params, ilcore.Param{ID: id, Type: t})
	}
	return label, params, nil
}
