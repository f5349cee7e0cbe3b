package ilcore

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the payload carried by a Value, per spec.md §3.
type ValueKind byte

const (
	KindTemp ValueKind = iota
	KindConstInt
	KindConstFloat
	KindConstStr
	KindGlobalAddr
	KindNullPtr
)

// Value is the IL operand tagged union of spec.md §3. Exactly one
// payload field is meaningful per Kind. Grounded on
// original_source/src/il/core/Value.cpp's factory-function shape
// (Value::temp/constInt/constBool/constFloat/constStr/global/null),
// translated into Go constructor functions returning a value type.
type Value struct {
	Kind   ValueKind
	TempID uint32
	I64    int64
	IsBool bool
	F64    float64
	Str    string // ConstStr payload or GlobalAddr name
}

func Temp(id uint32) Value { return Value{Kind: KindTemp, TempID: id} }

func ConstInt(v int64) Value { return Value{Kind: KindConstInt, I64: v} }

func ConstBool(v bool) Value {
	i := int64(0)
	if v {
		i = 1
	}
	return Value{Kind: KindConstInt, I64: i, IsBool: true}
}

func ConstFloat(v float64) Value { return Value{Kind: KindConstFloat, F64: v} }

func ConstStr(s string) Value { return Value{Kind: KindConstStr, Str: s} }

func GlobalAddr(name string) Value { return Value{Kind: KindGlobalAddr, Str: name} }

func NullPtr() Value { return Value{Kind: KindNullPtr} }

// Equal reports whether two values are identical in kind and payload.
// Used by the round-trip property tests (spec.md §8): parse(print(m))
// == m requires comparing values payload-for-payload, including NaN
// and signed-zero bit patterns for floats.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindTemp:
		return v.TempID == o.TempID
	case KindConstInt:
		return v.I64 == o.I64 && v.IsBool == o.IsBool
	case KindConstFloat:
		return math.Float64bits(v.F64) == math.Float64bits(o.F64)
	case KindConstStr, KindGlobalAddr:
		return v.Str == o.Str
	case KindNullPtr:
		return true
	}
	return false
}

// String renders v in its canonical textual IL form; this is the
// inverse the parser in internal/il/ilio must accept exactly, per
// spec.md §4.4's printer description and grounded on
// original_source/src/il/core/Value.cpp's toString.
func (v Value) String() string {
	switch v.Kind {
	case KindTemp:
		return "%t" + strconv.FormatUint(uint64(v.TempID), 10)
	case KindConstInt:
		if v.IsBool {
			if v.I64 != 0 {
				return "true"
			}
			return "false"
		}
		return strconv.FormatInt(v.I64, 10)
	case KindConstFloat:
		return formatFloat(v.F64)
	case KindConstStr:
		return "\"" + EncodeEscapes(v.Str) + "\""
	case KindGlobalAddr:
		return "@" + v.Str
	case KindNullPtr:
		return "null"
	}
	return ""
}

// formatFloat renders a float with enough precision to round-trip
// IEEE-754 (>=17 significant digits), trims trailing zeros while
// keeping the decimal point, and special-cases NaN/Inf/-0.0 per
// spec.md §4.4 and §8's boundary-behaviour invariants.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'g', 17, 64)
	// strconv may produce exponent form ("1e+20"); the original prints
	// fixed notation for the ranges this compiler's constants actually
	// occupy, but for values where 'g' chose exponent form we keep that
	// form rather than lose round-trip precision forcing 'f'.
	if strings.ContainsAny(s, "eE") {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	} else {
		s = strings.TrimRight(s, "0")
		if strings.HasSuffix(s, ".") {
			s += "0"
		}
	}
	return s
}
