package ilio

import (
	"strconv"
	"strings"

	"viperc/internal/il/ilcore"
)

// parseInstruction parses one instruction line: an optional
// `%tN = ` result prefix, the opcode mnemonic, an optional type token,
// a comma-separated operand list, and an optional ` -> ` branch
// clause. This plays the role of the opcode-keyed operand-kind table
// spec.md §4.4 describes, implemented as a switch so each opcode's
// grammar stays independently readable (see DESIGN.md).
func parseInstruction(fn *ilcore.Function, line string, lineNo int) (*ilcore.Instr, error) {
	var resultID *uint32
	rest := line
	if eq := strings.Index(line, "="); eq >= 0 && strings.HasPrefix(strings.TrimSpace(line), "%") {
		lhs := strings.TrimSpace(line[:eq])
		if strings.HasPrefix(lhs, "%t") {
			id, err := strconv.ParseUint(lhs[2:], 10, 32)
			if err == nil {
				v := uint32(id)
				resultID = &v
				fn.NoteTemp(v)
				rest = strings.TrimSpace(line[eq+1:])
			}
		}
	}

	mainPart := rest
	var branchPart string
	hasBranch := false
	if idx := strings.Index(rest, "->"); idx >= 0 {
		mainPart = strings.TrimSpace(rest[:idx])
		branchPart = strings.TrimSpace(rest[idx+2:])
		hasBranch = true
	}

	fields := strings.Fields(mainPart)
	if len(fields) == 0 {
		return nil, errf(lineNo, "empty instruction")
	}
	mnemonic := fields[0]
	op, ok := ilcore.ParseOpcode(mnemonic)
	if !ok {
		return nil, errf(lineNo, "unknown opcode '%s'", mnemonic)
	}

	operandText := strings.TrimSpace(strings.TrimPrefix(mainPart, mnemonic))

	instr := &ilcore.Instr{Op: op, Result: resultID, Line: lineNo}

	if hasBranch {
		edges, cases, err := parseBranchClause(fn, lineNo, branchPart, op)
		if err != nil {
			return nil, err
		}
		instr.Edges = edges
		instr.CaseValues = cases
	}

	return finishInstruction(fn, instr, operandText, lineNo)
}

// finishInstruction fills in Type/Operands/Result type per opcode,
// consuming an optional leading type token from operandText before
// splitting the remaining comma list.
func finishInstruction(fn *ilcore.Function, instr *ilcore.Instr, operandText string, lineNo int) (*ilcore.Instr, error) {
	op := instr.Op

	takeType := func() (ilcore.Type, string, error) {
		operandText = strings.TrimSpace(operandText)
		if operandText == "" {
			return 0, "", errf(lineNo, "%s: missing type operand", op)
		}
		sp := strings.IndexAny(operandText, " ,")
		tok := operandText
		remainder := ""
		if sp >= 0 {
			tok = operandText[:sp]
			remainder = strings.TrimSpace(operandText[sp:])
			remainder = strings.TrimPrefix(remainder, ",")
			remainder = strings.TrimSpace(remainder)
		} else {
			remainder = ""
		}
		t, err := parseTypeOperand(lineNo, tok)
		return t, remainder, err
	}

	operands := func(rem string) ([]ilcore.Value, error) {
		toks := splitOperands(rem)
		vals := make([]ilcore.Value, 0, len(toks))
		for _, tok := range toks {
			if tok == "" {
				continue
			}
			v, err := parseValueOperand(lineNo, tok, fn)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	}

	switch op {
	case ilcore.OpIconst:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		v, err := parseConstOperand(lineNo, rem)
		if err != nil {
			return nil, err
		}
		instr.Type, instr.Operands = t, []ilcore.Value{v}

	case ilcore.OpFconst:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		v, err := parseConstOperand(lineNo, rem)
		if err != nil {
			return nil, err
		}
		instr.Type, instr.Operands = t, []ilcore.Value{v}

	case ilcore.OpSconst:
		v, err := parseConstOperand(lineNo, operandText)
		if err != nil {
			return nil, err
		}
		instr.Type, instr.Operands = ilcore.Str, []ilcore.Value{v}

	case ilcore.OpAdd, ilcore.OpSub, ilcore.OpMul, ilcore.OpSDiv, ilcore.OpUDiv,
		ilcore.OpSRem, ilcore.OpURem, ilcore.OpAnd, ilcore.OpOr, ilcore.OpXor,
		ilcore.OpShl, ilcore.OpLShr, ilcore.OpAShr:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, errf(lineNo, "%s: expected 2 operands, got %d", op, len(vals))
		}
		instr.Type, instr.Operands = t, vals

	case ilcore.OpICmpEq, ilcore.OpICmpNe, ilcore.OpICmpLt, ilcore.OpICmpLe,
		ilcore.OpICmpGt, ilcore.OpICmpGe:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, errf(lineNo, "%s: expected 2 operands, got %d", op, len(vals))
		}
		instr.Type, instr.Operands = ilcore.I1, vals
		instr.CmpOperandType = t

	case ilcore.OpLoad:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 1 {
			return nil, errf(lineNo, "load: expected 1 operand, got %d", len(vals))
		}
		instr.Type, instr.Operands = t, vals

	case ilcore.OpStore:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, errf(lineNo, "store: expected 2 operands, got %d", len(vals))
		}
		instr.Type, instr.Operands = t, vals

	case ilcore.OpAlloca:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rem) != "" {
			return nil, errf(lineNo, "alloca: unexpected trailing operands")
		}
		instr.Type, instr.CmpOperandType = ilcore.Ptr, t

	case ilcore.OpGEP:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, errf(lineNo, "gep: expected 2 operands, got %d", len(vals))
		}
		_ = t
		instr.Type, instr.Operands = ilcore.Ptr, vals

	case ilcore.OpCall:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) < 1 {
			return nil, errf(lineNo, "call: missing callee")
		}
		instr.Type, instr.Operands = t, vals

	case ilcore.OpRet:
		t, rem, err := takeType()
		if err != nil {
			return nil, err
		}
		if t == ilcore.Void {
			instr.Type = ilcore.Void
			break
		}
		vals, err := operands(rem)
		if err != nil {
			return nil, err
		}
		if len(vals) != 1 {
			return nil, errf(lineNo, "ret: expected 1 operand, got %d", len(vals))
		}
		instr.Type, instr.Operands = t, vals

	case ilcore.OpBr, ilcore.OpCBr, ilcore.OpSwitch:
		if op == ilcore.OpSwitch {
			t, rem, err := takeType()
			if err != nil {
				return nil, err
			}
			vals, err := operands(rem)
			if err != nil {
				return nil, err
			}
			if len(vals) != 1 {
				return nil, errf(lineNo, "switch: expected 1 selector operand")
			}
			instr.Type, instr.Operands = t, vals
		} else if op == ilcore.OpCBr {
			vals, err := operands(operandText)
			if err != nil {
				return nil, err
			}
			if len(vals) != 1 {
				return nil, errf(lineNo, "cbr: expected 1 condition operand")
			}
			instr.Operands = vals
		}
		if len(instr.Edges) == 0 {
			return nil, errf(lineNo, "%s: missing branch target", op)
		}

	case ilcore.OpTrap:
		if strings.TrimSpace(operandText) != "" {
			v, err := parseConstOperand(lineNo, operandText)
			if err != nil {
				return nil, err
			}
			if v.Kind == ilcore.KindConstStr {
				instr.TrapKind = v.Str
			}
		}

	default:
		return nil, errf(lineNo, "unhandled opcode '%s'", op)
	}

	return instr, nil
}

// parseBranchClause parses the `-> ^label(args), case <const> -> ^label(args), ...`
// suffix. For br/cbr every entry is a plain edge; for switch the first
// entry is the default target and subsequent entries may be prefixed
// with `case <const>`.
func parseBranchClause(fn *ilcore.Function, lineNo int, text string, op ilcore.Opcode) ([]ilcore.Edge, []ilcore.Value, error) {
	entries := splitOperands(text)
	var edges []ilcore.Edge
	var cases []ilcore.Value
	for idx, entry := range entries {
		entry = strings.TrimSpace(entry)
		var caseVal *ilcore.Value
		if op == ilcore.OpSwitch && idx > 0 && strings.HasPrefix(entry, "case ") {
			rest := strings.TrimSpace(strings.TrimPrefix(entry, "case "))
			sp := strings.Index(rest, "^")
			if sp < 0 {
				return nil, nil, errf(lineNo, "malformed switch case '%s'", entry)
			}
			constText := strings.TrimSuffix(strings.TrimSpace(rest[:sp]), "->")
			v, err := parseConstOperand(lineNo, strings.TrimSpace(constText))
			if err != nil {
				return nil, nil, err
			}
			caseVal = &v
			entry = strings.TrimSpace(rest[sp:])
		}
		label, args, err := parseEdgeTarget(fn, lineNo, entry)
		if err != nil {
			return nil, nil, err
		}
		edges = append(edges, ilcore.Edge{Label: label, Args: args})
		if caseVal != nil {
			cases = append(cases, *caseVal)
		}
	}
	return edges, cases, nil
}

func parseEdgeTarget(fn *ilcore.Function, lineNo int, entry string) (string, []ilcore.Value, error) {
	lp := strings.Index(entry, "(")
	if lp < 0 {
		label, err := parseLabelOperand(lineNo, entry)
		return label, nil, err
	}
	rp := strings.LastIndex(entry, ")")
	if rp < 0 {
		return "", nil, errf(lineNo, "malformed branch target '%s'", entry)
	}
	label, err := parseLabelOperand(lineNo, entry[:lp])
	if err != nil {
		return "", nil, err
	}
	argStr := strings.TrimSpace(entry[lp+1 : rp])
	if argStr == "" {
		return label, nil, nil
	}
	var args []ilcore.Value
	for _, tok := range splitOperands(argStr) {
		v, err := parseValueOperand(lineNo, tok, fn)
		if err != nil {
			return "", nil, err
		}
		args = append(args, v)
	}
	return label, args, nil
}
