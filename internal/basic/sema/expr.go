package sema

import (
	"strconv"
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/diag"
)

func labelKey(n int64) string { return strconv.FormatInt(n, 10) }

// typeOfExpr implements spec.md §4.3 "Expression typing": a dispatch
// on operator/node kind rather than the teacher's visitor interface,
// per the AST package's visitor-free design (see DESIGN.md).
func (a *Analyzer) typeOfExpr(e ast.Expr) Type {
	switch ex := e.(type) {
	case *ast.IntLit:
		return Int
	case *ast.FloatLit:
		return Float
	case *ast.StringLit:
		return String
	case *ast.BoolLit:
		return Bool
	case *ast.VarExpr:
		return a.resolveVar(ex.Name, ex.Loc())
	case *ast.IndexExpr:
		a.checkArrayIndex(ex)
		return Int
	case *ast.CallExpr:
		return a.typeOfCall(ex)
	case *ast.BuiltinCallExpr:
		return a.typeOfBuiltinCall(ex)
	case *ast.UnaryExpr:
		return a.typeOfUnary(ex)
	case *ast.LogicalExpr:
		return a.typeOfLogical(ex)
	case *ast.BinaryExpr:
		return a.typeOfBinary(ex)
	case *ast.MeExpr:
		return a.typeOfMe(ex)
	case *ast.NewExpr:
		return a.typeOfNew(ex)
	case *ast.MemberExpr:
		return a.typeOfMember(ex)
	case *ast.MethodCallExpr:
		return a.typeOfMethodCall(ex)
	case *ast.ArrayBoundExpr:
		return a.typeOfArrayBound(ex)
	default:
		return Unknown
	}
}

// resolveVar implements "Variable resolution. On reference" of
// spec.md §4.3.
func (a *Analyzer) resolveVar(name string, loc diag.Location) Type {
	if !a.symbols[name] {
		var candidates []string
		for s := range a.symbols {
			candidates = append(candidates, s)
		}
		suggestion := suggestClosest(name, candidates)
		msg := diag.Template(diag.CodeUnknownVariable, "name", name)
		if suggestion != "" {
			msg += "; did you mean '" + suggestion + "'?"
		}
		a.diag.EmitMessage(diag.Error, diag.CodeUnknownVariable, msg, diag.Range{Start: loc})
		return Unknown
	}
	if t, ok := a.types[name]; ok {
		return t
	}
	return Unknown
}

// defineVar implements "On definition" of spec.md §4.3 "Variable
// resolution": unless already typed, assign the suffix-driven default
// type. forceSuffixType (used by INPUT targets) always reassigns.
func (a *Analyzer) defineVar(name string, forceSuffixType bool) {
	_, known := a.symbols[name]
	if !known {
		a.symbols[name] = true
		a.trackSymbol(name)
	}
	if _, typed := a.types[name]; !typed || forceSuffixType {
		if !known {
			a.trackSymbol(name)
		}
		a.types[name] = typeFromSuffix(name)
	}
}

func (a *Analyzer) checkArrayIndex(ex *ast.IndexExpr) {
	idxType := a.typeOfExpr(ex.Index)
	if idxType != Int && idxType != Unknown {
		loc := ex.Loc()
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: loc}, "lhsType", Int.String(), "rhsType", idxType.String())
	}
	if lit, ok := ex.Index.(*ast.IntLit); ok {
		if extent, known := a.arrayExtent[ex.Name]; known && extent >= 0 && (lit.Value < 0 || lit.Value >= int64(extent)) {
			a.diag.Emit(diag.Error, diag.CodeArrayIndexOOB, diag.Range{Start: ex.Loc()},
				"index", strconv.FormatInt(lit.Value, 10), "name", ex.Name, "length", strconv.Itoa(extent))
		}
	}
}

func (a *Analyzer) typeOfUnary(ex *ast.UnaryExpr) Type {
	operand := a.typeOfExpr(ex.Operand)
	if strings.ToUpper(ex.Op) == "NOT" {
		if operand != Bool && operand != Unknown {
			a.diag.Emit(diag.Error, diag.CodeNonBooleanLogical, diag.Range{Start: ex.Loc()}, "lhsType", operand.String(), "rhsType", operand.String())
			return Bool
		}
		return Bool
	}
	// Unary +/-
	if !isNumeric(operand) && operand != Unknown {
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: ex.Loc()}, "lhsType", operand.String(), "rhsType", operand.String())
		return Unknown
	}
	return operand
}

func (a *Analyzer) typeOfLogical(ex *ast.LogicalExpr) Type {
	l := a.typeOfExpr(ex.Left)
	r := a.typeOfExpr(ex.Right)
	if (l != Bool && l != Unknown) || (r != Bool && r != Unknown) {
		a.diag.Emit(diag.Error, diag.CodeNonBooleanLogical, diag.Range{Start: ex.Loc()}, "lhsType", l.String(), "rhsType", r.String())
	}
	return Bool
}

// typeOfBinary dispatches on operator per the rule table of spec.md
// §4.3 "Expression typing".
func (a *Analyzer) typeOfBinary(ex *ast.BinaryExpr) Type {
	l := a.typeOfExpr(ex.Left)
	r := a.typeOfExpr(ex.Right)
	loc := ex.Loc()

	switch strings.ToUpper(ex.Op) {
	case "+":
		if l == String && r == String {
			return String
		}
		return a.numericBinary(l, r, loc)
	case "-", "*":
		return a.numericBinary(l, r, loc)
	case "/":
		a.checkLiteralZero(ex.Right, loc)
		if !a.numericPair(l, r, loc) {
			return Unknown
		}
		return Float
	case "\\", "MOD":
		a.checkLiteralZero(ex.Right, loc)
		if l != Int && l != Unknown || r != Int && r != Unknown {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: loc}, "lhsType", l.String(), "rhsType", r.String())
			return Unknown
		}
		return Int
	case "^":
		a.numericBinary(l, r, loc)
		return Float
	case "=", "<>":
		a.comparablePair(l, r, loc)
		return Bool
	case "<", "<=", ">", ">=":
		a.comparablePair(l, r, loc)
		return Bool
	default:
		return Unknown
	}
}

func (a *Analyzer) numericPair(l, r Type, loc diag.Location) bool {
	if (l != Unknown && !isNumeric(l)) || (r != Unknown && !isNumeric(r)) {
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: loc}, "lhsType", l.String(), "rhsType", r.String())
		return false
	}
	return true
}

func (a *Analyzer) numericBinary(l, r Type, loc diag.Location) Type {
	if !a.numericPair(l, r, loc) {
		return Unknown
	}
	return commonNumericType(l, r)
}

func (a *Analyzer) comparablePair(l, r Type, loc diag.Location) {
	numeric := (l == Unknown || isNumeric(l)) && (r == Unknown || isNumeric(r))
	strings_ := (l == Unknown || l == String) && (r == Unknown || r == String)
	if !numeric && !strings_ {
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: loc}, "lhsType", l.String(), "rhsType", r.String())
	}
}

func (a *Analyzer) checkLiteralZero(e ast.Expr, loc diag.Location) {
	switch lit := e.(type) {
	case *ast.IntLit:
		if lit.Value == 0 {
			a.diag.Emit(diag.Error, diag.CodeDivideByZero, diag.Range{Start: loc})
		}
	case *ast.FloatLit:
		if lit.Value == 0 {
			a.diag.Emit(diag.Error, diag.CodeDivideByZero, diag.Range{Start: loc})
		}
	}
}

// typeOfCall implements spec.md §4.3 "Call resolution".
func (a *Analyzer) typeOfCall(ex *ast.CallExpr) Type {
	sig, ok := a.procs[ex.Name]
	if !ok {
		var candidates []string
		for name := range a.procs {
			candidates = append(candidates, name)
		}
		a.diag.Emit(diag.Error, diag.CodeDuplicateOrUnknown, diag.Range{Start: ex.Loc()}, "name", ex.Name)
		for _, arg := range ex.Args {
			a.typeOfExpr(arg)
		}
		return Unknown
	}
	if !sig.isFunction {
		a.diag.Emit(diag.Error, diag.CodeSubUsedInExpr, diag.Range{Start: ex.Loc()}, "name", ex.Name)
	}
	a.checkArgs(ex.Name, ex.Args, sig, ex.Loc())
	return sig.returnType
}

func (a *Analyzer) checkArgs(name string, args []ast.Expr, sig procSignature, loc diag.Location) {
	if len(args) != len(sig.params) {
		a.diag.Emit(diag.Error, diag.CodeArgCountMismatch, diag.Range{Start: loc},
			"name", name, "expected", strconv.Itoa(len(sig.params)), "actual", strconv.Itoa(len(args)))
	}
	for i, arg := range args {
		if i >= len(sig.params) {
			a.typeOfExpr(arg)
			continue
		}
		argType := a.typeOfExpr(arg)
		want := sig.paramTypes[i]
		if want == ArrayInt {
			if _, ok := arg.(*ast.VarExpr); !ok {
				a.diag.Emit(diag.Error, diag.CodeArrayArgRequired, diag.Range{Start: loc}, "index", strconv.Itoa(i+1), "name", name)
			}
			continue
		}
		if argType == Unknown || want == Unknown {
			continue
		}
		if want == Float && argType == Int {
			continue
		}
		if argType != want {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: loc}, "lhsType", want.String(), "rhsType", argType.String())
		}
	}
}
