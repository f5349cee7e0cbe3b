// Package ilcore is the IL core data model of spec.md §3/§4.4: types,
// values, instructions, basic blocks, functions, and the module that
// contains them. It is the in-memory representation the textual codec
// in internal/il/ilio parses into and prints from.
package ilcore

// Type is the closed set of IL types from spec.md §3. Types are
// value-equal by tag, so Type is a plain comparable enum rather than an
// interface, matching the teacher's closed-enum style
// (internal/bytecode.OpCode) applied here to the type lattice instead
// of the opcode set.
type Type byte

const (
	Void Type = iota
	I1
	I16
	I32
	I64
	F64
	Ptr
	Str
	ErrorType
	ResumeTok
)

var typeNames = map[Type]string{
	Void:      "void",
	I1:        "i1",
	I16:       "i16",
	I32:       "i32",
	I64:       "i64",
	F64:       "f64",
	Ptr:       "ptr",
	Str:       "str",
	ErrorType: "error",
	ResumeTok: "resumetok",
}

var typesByName = map[string]Type{
	"void":      Void,
	"i1":        I1,
	"i16":       I16,
	"i32":       I32,
	"i64":       I64,
	"f64":       F64,
	"ptr":       Ptr,
	"str":       Str,
	"error":     ErrorType,
	"resumetok": ResumeTok,
}

// String renders the canonical spelling used by the textual codec.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "?"
}

// ParseType maps a canonical spelling back to a Type.
func ParseType(s string) (Type, bool) {
	t, ok := typesByName[s]
	return t, ok
}
