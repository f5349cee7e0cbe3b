package ast

// Builtins is the closed set of BASIC builtin function names, keyed by
// their uppercased spelling, per spec.md §3's "builtin call (tag +
// argument list)" variant. The parser consults this set to decide
// between a BuiltinCallExpr and a user CallExpr at the identifier-call
// site (expr.go's parseAtom); the semantic analyzer's builtinSignatures
// table (internal/basic/sema/builtins.go) must cover every name here.
var Builtins = map[string]bool{
	"LEN": true, "MID": true, "LEFT": true, "RIGHT": true,
	"CHR": true, "ASC": true, "INT": true, "ABS": true,
	"STR": true, "VAL": true, "UCASE": true, "LCASE": true,
	"TRIM": true, "LTRIM": true, "RTRIM": true, "INSTR": true,
	"SGN": true, "SQR": true, "RND": true, "SPACE": true,
}
