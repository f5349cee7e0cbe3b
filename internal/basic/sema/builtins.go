package sema

import (
	"strconv"

	"viperc/internal/basic/ast"
	"viperc/internal/diag"
)

// builtinSignature is the expected argument-count range and return type
// of one BASIC builtin, per spec.md §3/§4.3 "Call resolution" applied
// to the builtin-call expression variant. Every key here must also
// appear in ast.Builtins, and vice versa.
type builtinSignature struct {
	minArgs, maxArgs int
	returnType       Type
}

var builtinSignatures = map[string]builtinSignature{
	"LEN":   {1, 1, Int},
	"MID":   {2, 3, String},
	"LEFT":  {2, 2, String},
	"RIGHT": {2, 2, String},
	"CHR":   {1, 1, String},
	"ASC":   {1, 1, Int},
	"INT":   {1, 1, Int},
	"ABS":   {1, 1, Float},
	"STR":   {1, 1, String},
	"VAL":   {1, 1, Float},
	"UCASE": {1, 1, String},
	"LCASE": {1, 1, String},
	"TRIM":  {1, 1, String},
	"LTRIM": {1, 1, String},
	"RTRIM": {1, 1, String},
	"INSTR": {2, 3, Int},
	"SGN":   {1, 1, Int},
	"SQR":   {1, 1, Float},
	"RND":   {0, 1, Float},
	"SPACE": {1, 1, String},
}

// typeOfBuiltinCall implements spec.md §4.3 "Call resolution" for the
// builtin-call variant: an arg-count check against the fixed table
// above, since builtins have no user-declared procSignature to look up
// against a.procs.
func (a *Analyzer) typeOfBuiltinCall(ex *ast.BuiltinCallExpr) Type {
	for _, arg := range ex.Args {
		a.typeOfExpr(arg)
	}
	sig, ok := builtinSignatures[ex.Name]
	if !ok {
		return Unknown
	}
	if len(ex.Args) < sig.minArgs || len(ex.Args) > sig.maxArgs {
		a.diag.Emit(diag.Error, diag.CodeArgCountMismatch, diag.Range{Start: ex.Loc()},
			"name", ex.Name, "expected", strconv.Itoa(sig.minArgs), "actual", strconv.Itoa(len(ex.Args)))
	}
	return sig.returnType
}
