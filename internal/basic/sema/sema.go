package sema

import (
	stderrors "errors"

	"github.com/pkg/errors"

	"viperc/internal/basic/ast"
	"viperc/internal/diag"
)

// errScopeUnderflow marks the one internal-invariant trap in this
// package: popScope called with nothing pushed means pushScope/popScope
// calls somewhere went unbalanced, a compiler bug rather than a user
// diagnostic (SPEC_FULL.md §2 "ambient stack" errors path). Wrapped
// with errors.WithStack at the panic site so a caught panic carries a
// stack trace back to here, not just to the recover point.
var errScopeUnderflow = stderrors.New("sema: popScope called on an empty scope stack")

// procSignature is the registered shape of one SUB/FUNCTION, per
// spec.md §4.3 "Call resolution".
type procSignature struct {
	params     []ast.Param
	paramTypes []Type
	returnType Type
	isFunction bool
}

// scopeDelta records every mutation a nested scope made to analyzer
// state, so Analyzer.popScope can undo it exactly, per spec.md §4.3
// "Procedure scope": "roll back every symbol, type, array, and channel
// mutation... remove newly defined labels and label references."
type scopeDelta struct {
	addedSymbols []string
	addedTypes   map[string]Type // previous type, "" sentinel via ok bool tracked separately
	hadType      map[string]bool
	addedArrays  map[string]int
	hadArray     map[string]bool
	addedChans   []int
	addedLabels  []string
	addedRefs    []string

	// touchedClasses/addedClasses/hadClass mirror addedSymbols/addedTypes/
	// hadType for varClass (the NEW-instantiation class-name side table),
	// per spec.md §4.3 "Procedure scope" rollback.
	touchedClasses []string
	addedClasses   map[string]string
	hadClass       map[string]bool

	loopDepth int
	forDepth  int
	errActive bool
	errTarget string
}

// Analyzer walks a Program and reports diagnostics, per spec.md §4.3.
// It carries exactly the state the spec names: symbols, types, array
// extents, open channels, loop/FOR stacks, label defs/refs, error-
// handler state, and the procedure registry.
type Analyzer struct {
	diag *diag.Emitter

	symbols     map[string]bool
	types       map[string]Type
	arrayExtent map[string]int // -1 for unknown extent
	openChans   map[int]bool

	loopStack []ast.ExitKind
	forStack  []string

	labelsDefined map[string]bool
	labelsRefed   map[string]bool

	errHandlerActive bool
	errHandlerTarget string

	procs map[string]procSignature

	currentProcIsFunction bool
	currentProcName       string
	currentProcReturned   bool

	scopes []*scopeDelta

	classes    map[string]classEntry
	interfaces map[string]interfaceEntry
	// InterfaceHook, if set, runs once per declared interface during the
	// OOP-index phase; nil by default (see DESIGN.md Open Questions).
	InterfaceHook InterfaceHook

	// varClass tracks the statically-known class of a variable last
	// assigned from NEW or another object-typed expression, so member
	// access/method calls (spec.md §3) can resolve against a.classes.
	varClass map[string]string
	// currentClassName is non-"" while analyzing the body of a class
	// method, so ME (spec.md §3) resolves to that class.
	currentClassName string

	// namespaces is the full set of declared namespace names (dotted),
	// built once by checkNamespaces for E_NS_003 ambiguity checking.
	namespaces map[string]bool
}

func New(emitter *diag.Emitter) *Analyzer {
	return &Analyzer{
		diag:          emitter,
		symbols:       make(map[string]bool),
		types:         make(map[string]Type),
		arrayExtent:   make(map[string]int),
		openChans:     make(map[int]bool),
		labelsDefined: make(map[string]bool),
		labelsRefed:   make(map[string]bool),
		procs:         make(map[string]procSignature),
		varClass:      make(map[string]string),
	}
}

// Analyze runs the five phases of spec.md §4.3 "Analysis phases".
func (a *Analyzer) Analyze(prog *ast.Program) {
	for _, proc := range prog.Procs {
		a.registerProc(proc)
	}
	for _, proc := range prog.Procs {
		a.analyzeProcBody(proc)
	}
	a.buildOOPIndex(prog.Main)
	a.checkNamespaces(prog)
	a.collectLabels(prog.Main)
	for _, s := range prog.Main {
		a.analyzeStmt(s)
	}
}

func (a *Analyzer) registerProc(proc ast.ProcDecl) {
	sig := procSignature{params: proc.Params, isFunction: proc.IsFunction, returnType: typeFromDeclared(proc.ReturnType)}
	for _, p := range proc.Params {
		if p.IsArray {
			sig.paramTypes = append(sig.paramTypes, ArrayInt)
			continue
		}
		t := typeFromDeclared(p.Type)
		if t == Unknown {
			t = typeFromSuffix(p.Name)
		}
		sig.paramTypes = append(sig.paramTypes, t)
	}
	a.procs[proc.Name] = sig
}

// pushScope implements "Procedure scope. On entry" of spec.md §4.3.
func (a *Analyzer) pushScope() {
	d := &scopeDelta{
		hadType:   make(map[string]bool),
		addedArrays: make(map[string]int),
		hadArray:  make(map[string]bool),
		loopDepth: len(a.loopStack),
		forDepth:  len(a.forStack),
		errActive: a.errHandlerActive,
		errTarget: a.errHandlerTarget,
	}
	a.scopes = append(a.scopes, d)
}

// popScope implements "On exit" of spec.md §4.3: restores all snapshot
// state and rolls back every delta-tracked mutation.
func (a *Analyzer) popScope() {
	n := len(a.scopes)
	if n == 0 {
		panic(errors.WithStack(errScopeUnderflow))
	}
	d := a.scopes[n-1]
	a.scopes = a.scopes[:n-1]

	for _, name := range d.addedSymbols {
		delete(a.symbols, name)
		if d.hadType[name] {
			a.types[name] = d.addedTypes[name]
		} else {
			delete(a.types, name)
		}
	}
	for name, prevExtent := range d.addedArrays {
		if d.hadArray[name] {
			a.arrayExtent[name] = prevExtent
		} else {
			delete(a.arrayExtent, name)
		}
	}
	for _, ch := range d.addedChans {
		delete(a.openChans, ch)
	}
	for _, l := range d.addedLabels {
		delete(a.labelsDefined, l)
	}
	for _, r := range d.addedRefs {
		delete(a.labelsRefed, r)
	}
	for _, name := range d.touchedClasses {
		if d.hadClass[name] {
			a.varClass[name] = d.addedClasses[name]
		} else {
			delete(a.varClass, name)
		}
	}

	a.loopStack = a.loopStack[:d.loopDepth]
	a.forStack = a.forStack[:d.forDepth]
	a.errHandlerActive = d.errActive
	a.errHandlerTarget = d.errTarget
}

func (a *Analyzer) trackSymbol(name string) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	d.addedSymbols = append(d.addedSymbols, name)
	if t, ok := a.types[name]; ok {
		if d.addedTypes == nil {
			d.addedTypes = make(map[string]Type)
		}
		d.addedTypes[name] = t
		d.hadType[name] = true
	}
}

func (a *Analyzer) trackArray(name string) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	if prev, ok := a.arrayExtent[name]; ok {
		d.hadArray[name] = true
		d.addedArrays[name] = prev
	} else {
		d.addedArrays[name] = -1
	}
}

func (a *Analyzer) trackClass(name string) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	d.touchedClasses = append(d.touchedClasses, name)
	if prev, ok := a.varClass[name]; ok {
		if d.addedClasses == nil {
			d.addedClasses = make(map[string]string)
		}
		d.addedClasses[name] = prev
		if d.hadClass == nil {
			d.hadClass = make(map[string]bool)
		}
		d.hadClass[name] = true
	}
}

func (a *Analyzer) trackChannel(ch int) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	d.addedChans = append(d.addedChans, ch)
}

func (a *Analyzer) trackLabel(name string) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	d.addedLabels = append(d.addedLabels, name)
}

func (a *Analyzer) trackRef(name string) {
	if len(a.scopes) == 0 {
		return
	}
	d := a.scopes[len(a.scopes)-1]
	d.addedRefs = append(d.addedRefs, name)
}

// analyzeProcBody implements spec.md §4.3's per-procedure analysis:
// fresh scope, parameter registration, body walk, return-path check
// for FUNCTIONs, then unconditional scope rollback.
func (a *Analyzer) analyzeProcBody(proc ast.ProcDecl) {
	a.pushScope()
	prevIsFunc, prevName, prevReturned := a.currentProcIsFunction, a.currentProcName, a.currentProcReturned
	a.currentProcIsFunction = proc.IsFunction
	a.currentProcName = proc.Name
	a.currentProcReturned = false

	for _, p := range proc.Params {
		a.defineParam(p)
	}
	a.collectLabels(proc.Body)
	for _, s := range proc.Body {
		a.analyzeStmt(s)
	}

	if proc.IsFunction && !a.terminalPathsReturn(proc.Body) {
		a.diag.Emit(diag.Error, diag.CodeMissingReturn, diag.Range{Start: proc.Loc()}, "name", proc.Name)
	}

	a.currentProcIsFunction, a.currentProcName, a.currentProcReturned = prevIsFunc, prevName, prevReturned
	a.popScope()
}

// defineParam implements spec.md §4.3 "Parameter registration".
func (a *Analyzer) defineParam(p ast.Param) {
	a.symbols[p.Name] = true
	a.trackSymbol(p.Name)
	if p.IsArray {
		a.arrayExtent[p.Name] = -1
		a.trackArray(p.Name)
		a.types[p.Name] = ArrayInt
		return
	}
	t := typeFromDeclared(p.Type)
	if t == Unknown {
		t = typeFromSuffix(p.Name)
	}
	a.types[p.Name] = t
}

// terminalPathsReturn walks the last statement(s) of a body and
// reports whether every terminal control path returns a value, per
// spec.md §4.3 "Procedures returning a value". A conservative
// approximation: an IF's THEN/ELSE both return, or the body ends in a
// value RETURN.
func (a *Analyzer) terminalPathsReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	last := body[len(body)-1]
	if lbl, ok := last.(*ast.LabeledStmt); ok {
		last = lbl.Inner
	}
	switch s := last.(type) {
	case *ast.ReturnStmt:
		return !s.IsGosubReturn
	case *ast.IfStmt:
		if len(s.Else) == 0 {
			return false
		}
		if !a.terminalPathsReturn(s.Then) || !a.terminalPathsReturn(s.Else) {
			return false
		}
		for _, arm := range s.ElseIfs {
			if !a.terminalPathsReturn(arm.Body) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// collectLabels implements spec.md §4.3 phase 3: register every
// statement's line label before the body is walked, so forward GOTOs
// resolve.
func (a *Analyzer) collectLabels(body []ast.Stmt) {
	for _, s := range body {
		if lbl, ok := s.(*ast.LabeledStmt); ok {
			if lbl.HasNumeric {
				name := labelKey(lbl.NumericLabel)
				a.labelsDefined[name] = true
				a.trackLabel(name)
			}
			if lbl.NamedLabel != "" {
				a.labelsDefined[lbl.NamedLabel] = true
				a.trackLabel(lbl.NamedLabel)
			}
		}
	}
}
