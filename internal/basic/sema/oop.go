package sema

import (
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/diag"
)

// classEntry and interfaceEntry hold the OOP index spec.md §4.3 phase 5
// names: "Build the OOP class/interface index."
type classEntry struct {
	decl *ast.ClassDecl
}

type interfaceEntry struct {
	decl *ast.InterfaceDecl
}

// InterfaceHook lets a caller plug in interface-conformance validation
// without the analyzer depending on it; nil by default, per the
// Open Question decision recorded in DESIGN.md.
type InterfaceHook func(*Analyzer, *ast.InterfaceDecl)

func (a *Analyzer) buildOOPIndex(main []ast.Stmt) {
	a.classes = make(map[string]classEntry)
	a.interfaces = make(map[string]interfaceEntry)
	for _, s := range main {
		switch decl := s.(type) {
		case *ast.ClassDecl:
			a.classes[decl.Name] = classEntry{decl: decl}
		case *ast.InterfaceDecl:
			a.interfaces[decl.Name] = interfaceEntry{decl: decl}
		}
	}
	for _, entry := range a.interfaces {
		if a.InterfaceHook != nil {
			a.InterfaceHook(a, entry.decl)
		}
	}
	for _, entry := range a.classes {
		a.analyzeClassMembers(entry.decl)
	}
}

// analyzeClassMembers walks each method body under its own procedure
// scope, the same way a top-level SUB/FUNCTION is analyzed. It sets
// currentClassName for the duration so ME (spec.md §3) resolves to
// this class inside the method body.
func (a *Analyzer) analyzeClassMembers(decl *ast.ClassDecl) {
	prev := a.currentClassName
	a.currentClassName = decl.Name
	for _, m := range decl.Members {
		a.analyzeProcBody(m)
	}
	a.currentClassName = prev
}

// exprClassName returns the statically-known class name of e, or "" if
// e's class isn't known — ME (the enclosing class), a fresh NEW, or a
// variable last assigned from one of those (tracked in a.varClass).
func (a *Analyzer) exprClassName(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.MeExpr:
		return a.currentClassName
	case *ast.NewExpr:
		return ex.ClassName
	case *ast.VarExpr:
		return a.varClass[ex.Name]
	default:
		return ""
	}
}

// typeOfMe implements spec.md §3/§4.3's ME expression: Object-typed
// inside a class method body, an error (B4001) elsewhere.
func (a *Analyzer) typeOfMe(ex *ast.MeExpr) Type {
	if a.currentClassName == "" {
		a.diag.Emit(diag.Error, diag.CodeMeOutsideClass, diag.Range{Start: ex.Loc()})
		return Unknown
	}
	return Object
}

// typeOfNew implements spec.md §3/§4.3's NEW expression: look up the
// named class in the OOP index built by buildOOPIndex (B4002 if
// missing), type-check constructor-call arguments against nothing in
// particular (this dialect has no declared constructor signature — the
// original's class bodies only declare SUB/FUNCTION members), and yield
// Object.
func (a *Analyzer) typeOfNew(ex *ast.NewExpr) Type {
	for _, arg := range ex.Args {
		a.typeOfExpr(arg)
	}
	if _, ok := a.findClass(ex.ClassName); !ok {
		a.diag.Emit(diag.Error, diag.CodeUnknownClass, diag.Range{Start: ex.Loc()}, "name", ex.ClassName)
		return Unknown
	}
	return Object
}

// findClass looks up a class by name case-insensitively: DIM's "AS
// type" token is uppercased by the parser (dimOrRedim), while a class's
// declared name keeps its source casing, so a plain map lookup against
// a.classes would miss.
func (a *Analyzer) findClass(name string) (classEntry, bool) {
	if entry, ok := a.classes[name]; ok {
		return entry, true
	}
	for className, entry := range a.classes {
		if strings.EqualFold(className, name) {
			return entry, true
		}
	}
	return classEntry{}, false
}

// findMember looks up a method by name (case-insensitively) on a class,
// per spec.md §4.2's class member declarations.
func findMember(decl *ast.ClassDecl, name string) (ast.ProcDecl, bool) {
	for _, m := range decl.Members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return ast.ProcDecl{}, false
}

// typeOfMember implements spec.md §3's bare member-access expression:
// resolved as a zero-argument FUNCTION member (a property-style
// getter), since this dialect's classes carry no separate field
// declarations.
func (a *Analyzer) typeOfMember(ex *ast.MemberExpr) Type {
	a.typeOfExpr(ex.Target)
	className := a.exprClassName(ex.Target)
	if className == "" {
		return Unknown
	}
	entry, ok := a.findClass(className)
	if !ok {
		return Unknown
	}
	if m, ok := findMember(entry.decl, ex.Member); ok && m.IsFunction && len(m.Params) == 0 {
		return typeFromDeclared(m.ReturnType)
	}
	a.diag.Emit(diag.Error, diag.CodeUnknownMember, diag.Range{Start: ex.Loc()}, "name", ex.Member, "class", className)
	return Unknown
}

// typeOfMethodCall implements spec.md §3's method-call expression,
// resolving Method against the target's class the same way typeOfCall
// resolves a user call against a.procs.
func (a *Analyzer) typeOfMethodCall(ex *ast.MethodCallExpr) Type {
	a.typeOfExpr(ex.Target)
	for _, arg := range ex.Args {
		a.typeOfExpr(arg)
	}
	className := a.exprClassName(ex.Target)
	if className == "" {
		return Unknown
	}
	entry, ok := a.findClass(className)
	if !ok {
		return Unknown
	}
	m, ok := findMember(entry.decl, ex.Method)
	if !ok {
		a.diag.Emit(diag.Error, diag.CodeUnknownMember, diag.Range{Start: ex.Loc()}, "name", ex.Method, "class", className)
		return Unknown
	}
	return typeFromDeclared(m.ReturnType)
}

// typeOfArrayBound implements spec.md §3's LBOUND/UBOUND expressions:
// both require a declared array argument (B4004 otherwise) and yield
// Int.
func (a *Analyzer) typeOfArrayBound(ex *ast.ArrayBoundExpr) Type {
	if _, ok := a.arrayExtent[ex.Name]; !ok {
		name := "LBOUND"
		if ex.Upper {
			name = "UBOUND"
		}
		a.diag.Emit(diag.Error, diag.CodeArrayBoundArgRequired, diag.Range{Start: ex.Loc()}, "name", name)
	}
	return Int
}
