package ilio

import (
	"strconv"
	"strings"

	"viperc/internal/il/ilcore"
)

// Print renders m in the canonical textual IL form, the exact inverse
// of Parse: parse(Print(m)) must equal m byte-for-byte, per spec.md §8
// scenario 5. Grounded on original_source/src/il/io/ModulePrinter.cpp's
// section ordering (version, target, externs, globals, functions).
func Print(m *ilcore.Module) string {
	var b strings.Builder

	b.WriteString("il ")
	b.WriteString(m.Version)
	b.WriteByte('\n')

	if m.Target != "" {
		b.WriteString("target \"")
		b.WriteString(ilcore.EncodeEscapes(m.Target))
		b.WriteString("\"\n")
	}

	for _, e := range m.Externs {
		printExtern(&b, e)
	}

	for _, g := range m.Globals {
		printGlobal(&b, g)
	}

	for i := range m.Functions {
		printFunction(&b, &m.Functions[i])
	}

	return b.String()
}

func printExtern(b *strings.Builder, e ilcore.Extern) {
	b.WriteString("extern @")
	b.WriteString(e.Name)
	b.WriteByte('(')
	for i, p := range e.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(e.RetType.String())
	b.WriteByte('\n')
}

func printGlobal(b *strings.Builder, g ilcore.Global) {
	b.WriteString("global @")
	b.WriteString(g.Name)
	b.WriteString(" = ")
	if g.Init.IsString {
		b.WriteByte('"')
		b.WriteString(ilcore.EncodeEscapes(g.Init.Str))
		b.WriteByte('"')
	} else {
		b.WriteString(g.Init.Scalar.String())
	}
	b.WriteByte('\n')
}

func printFunction(b *strings.Builder, fn *ilcore.Function) {
	b.WriteString("func @")
	b.WriteString(fn.Name)
	b.WriteByte('(')
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		printParam(b, p)
	}
	b.WriteString(") -> ")
	b.WriteString(fn.RetType.String())
	b.WriteString(" {\n")

	for bi := range fn.Blocks {
		printBlock(b, &fn.Blocks[bi])
	}

	b.WriteString("}\n")
}

func printParam(b *strings.Builder, p ilcore.Param) {
	b.WriteString("%t")
	b.WriteString(strconv.FormatUint(uint64(p.ID), 10))
	b.WriteString(": ")
	b.WriteString(p.Type.String())
}

func printBlock(b *strings.Builder, blk *ilcore.Block) {
	b.WriteByte('^')
	b.WriteString(blk.Label)
	if len(blk.Params) > 0 {
		b.WriteByte('(')
		for i, p := range blk.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			printParam(b, p)
		}
		b.WriteByte(')')
	}
	b.WriteString(":\n")

	for i := range blk.Instrs {
		b.WriteString("  ")
		printInstr(b, &blk.Instrs[i])
		b.WriteByte('\n')
	}
}

func printInstr(b *strings.Builder, in *ilcore.Instr) {
	if in.HasResult() {
		b.WriteString("%t")
		b.WriteString(strconv.FormatUint(uint64(*in.Result), 10))
		b.WriteString(" = ")
	}
	b.WriteString(in.Op.String())

	switch in.Op {
	case ilcore.OpIconst, ilcore.OpFconst:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		b.WriteString(in.Operands[0].String())

	case ilcore.OpSconst:
		b.WriteByte(' ')
		b.WriteString(in.Operands[0].String())

	case ilcore.OpAdd, ilcore.OpSub, ilcore.OpMul, ilcore.OpSDiv, ilcore.OpUDiv,
		ilcore.OpSRem, ilcore.OpURem, ilcore.OpAnd, ilcore.OpOr, ilcore.OpXor,
		ilcore.OpShl, ilcore.OpLShr, ilcore.OpAShr:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpICmpEq, ilcore.OpICmpNe, ilcore.OpICmpLt, ilcore.OpICmpLe,
		ilcore.OpICmpGt, ilcore.OpICmpGe:
		b.WriteByte(' ')
		b.WriteString(in.CmpOperandType.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpLoad:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpStore:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpAlloca:
		b.WriteByte(' ')
		b.WriteString(in.CmpOperandType.String())

	case ilcore.OpGEP:
		b.WriteByte(' ')
		b.WriteString(ilcore.Ptr.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpCall:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpRet:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		if in.Type != ilcore.Void {
			b.WriteByte(' ')
			printOperandList(b, in.Operands)
		}

	case ilcore.OpCBr:
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpSwitch:
		b.WriteByte(' ')
		b.WriteString(in.Type.String())
		b.WriteByte(' ')
		printOperandList(b, in.Operands)

	case ilcore.OpTrap:
		if in.TrapKind != "" {
			b.WriteByte(' ')
			b.WriteByte('"')
			b.WriteString(ilcore.EncodeEscapes(in.TrapKind))
			b.WriteByte('"')
		}
	}

	if len(in.Edges) > 0 {
		b.WriteString(" -> ")
		caseIdx := 0
		for i, e := range in.Edges {
			if i > 0 {
				b.WriteString(", ")
			}
			if in.Op == ilcore.OpSwitch && i > 0 {
				b.WriteString("case ")
				b.WriteString(in.CaseValues[caseIdx].String())
				caseIdx++
				b.WriteString(" -> ")
			}
			printEdge(b, e)
		}
	}
}

func printOperandList(b *strings.Builder, vals []ilcore.Value) {
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
}

func printEdge(b *strings.Builder, e ilcore.Edge) {
	b.WriteByte('^')
	b.WriteString(e.Label)
	if len(e.Args) > 0 {
		b.WriteByte('(')
		printOperandList(b, e.Args)
		b.WriteByte(')')
	}
}
