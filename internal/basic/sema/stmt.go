package sema

import (
	"strconv"
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/diag"
)

// analyzeStmt dispatches on the statement's concrete type, mirroring
// spec.md §4.3's per-construct rules. This is a type switch rather
// than a visitor call, per the AST package's visitor-free design.
func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LabeledStmt:
		a.analyzeStmt(st.Inner)
	case *ast.LetStmt:
		a.analyzeLet(st)
	case *ast.DimStmt:
		a.analyzeDim(st)
	case *ast.ConstStmt:
		a.typeOfExpr(st.Value)
		a.defineVar(st.Name, false)
	case *ast.StaticStmt:
		for _, n := range st.Names {
			a.defineVar(n, false)
		}
	case *ast.SharedStmt:
		for _, n := range st.Names {
			a.defineVar(n, false)
		}
	case *ast.PrintStmt:
		if st.Channel != nil {
			a.typeOfExpr(st.Channel)
		}
		for _, item := range st.Items {
			a.typeOfExpr(item.Value)
		}
	case *ast.WriteStmt:
		if st.Channel != nil {
			a.typeOfExpr(st.Channel)
		}
		for _, item := range st.Items {
			a.typeOfExpr(item)
		}
	case *ast.OpenStmt:
		a.analyzeOpen(st)
	case *ast.CloseStmt:
		if st.Channel != nil {
			a.typeOfExpr(st.Channel)
		}
	case *ast.SeekStmt:
		a.typeOfExpr(st.Channel)
		a.typeOfExpr(st.Position)
	case *ast.InputStmt:
		a.analyzeInput(st)
	case *ast.IfStmt:
		a.analyzeIf(st)
	case *ast.SelectCaseStmt:
		a.analyzeSelectCase(st)
	case *ast.WhileStmt:
		a.analyzeCondition(st.Cond)
		a.loopStack = append(a.loopStack, ast.ExitWhile)
		for _, body := range st.Body {
			a.analyzeStmt(body)
		}
		a.loopStack = a.loopStack[:len(a.loopStack)-1]
	case *ast.DoLoopStmt:
		if st.Cond != nil {
			a.analyzeCondition(st.Cond)
		}
		a.loopStack = append(a.loopStack, ast.ExitDo)
		for _, body := range st.Body {
			a.analyzeStmt(body)
		}
		a.loopStack = a.loopStack[:len(a.loopStack)-1]
	case *ast.ForStmt:
		a.analyzeFor(st)
	case *ast.NextStmt:
		a.analyzeNext(st)
	case *ast.ExitStmt:
		a.analyzeExit(st)
	case *ast.GotoStmt:
		a.referenceLabel(st.Target, st.Loc())
	case *ast.GosubStmt:
		a.referenceLabel(st.Target, st.Loc())
	case *ast.ReturnStmt:
		a.analyzeReturn(st)
	case *ast.OnErrorGotoStmt:
		a.analyzeOnErrorGoto(st)
	case *ast.ResumeStmt:
		a.analyzeResume(st)
	case *ast.CallStmt:
		a.analyzeCallStmt(st)
	case *ast.TryStmt:
		a.analyzeTry(st)
	case *ast.RandomizeStmt:
		if st.Seed != nil {
			a.typeOfExpr(st.Seed)
		}
	case *ast.ColorStmt:
		a.typeOfExpr(st.Foreground)
		if st.Background != nil {
			a.typeOfExpr(st.Background)
		}
	case *ast.LocateStmt:
		a.typeOfExpr(st.Row)
		a.typeOfExpr(st.Col)
	case *ast.CursorStmt:
		a.typeOfExpr(st.Visible)
	case *ast.AltscreenStmt:
		a.typeOfExpr(st.On)
	case *ast.SleepStmt:
		a.typeOfExpr(st.Millis)
	case *ast.StmtList:
		for _, inner := range st.Stmts {
			a.analyzeStmt(inner)
		}
	case *ast.NamespaceDecl:
		a.collectLabels(st.Body)
		for _, inner := range st.Body {
			a.analyzeStmt(inner)
		}
	case *ast.ClassDecl, *ast.InterfaceDecl, *ast.UsingStmt,
		*ast.EndStmt, *ast.ClsStmt:
		// No symbol/type obligations beyond the OOP index built
		// separately (spec.md §4.3 phase 5). UsingStmt's placement/
		// reserved-root/ambiguity diagnostics (E_NS_001..003) are
		// emitted by checkNamespaces (namespace.go), a dedicated
		// pre-pass that runs before this statement walk begins.
	}
}

// analyzeLet implements spec.md §4.3 "Assignment typing" for a scalar
// LHS.
func (a *Analyzer) analyzeLet(st *ast.LetStmt) {
	if a.inForIteratorScope(st.Target) {
		a.diag.Emit(diag.Error, diag.CodeAssignToForVar, diag.Range{Start: st.Loc()}, "name", st.Target)
	}
	rhsType := a.typeOfExpr(st.Value)

	if _, isArray := a.arrayExtent[st.Target]; isArray && rhsType != ArrayInt {
		a.diag.Emit(diag.Error, diag.CodeLHSNotAssignable, diag.Range{Start: st.Loc()})
		return
	}

	lhsKnown := a.symbols[st.Target]
	lhsType := a.types[st.Target]
	a.defineVar(st.Target, false)
	if rhsType == Object && (!lhsKnown || lhsType == Unknown || lhsType == Object) {
		a.types[st.Target] = Object
		if cn := a.exprClassName(st.Value); cn != "" {
			a.varClass[st.Target] = cn
			a.trackClass(st.Target)
		}
	}
	if !lhsKnown {
		return
	}

	switch lhsType {
	case Int:
		if rhsType == Float {
			if isArithmetic(st.Value) && !hasIntSuffix(st.Target) {
				a.types[st.Target] = Float
			} else {
				a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Int", "rhsType", "Float")
			}
		} else if rhsType != Int && rhsType != Unknown {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Int", "rhsType", rhsType.String())
		}
	case String:
		if rhsType != String && rhsType != Unknown {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "String", "rhsType", rhsType.String())
		}
	case Bool:
		if rhsType != Bool && rhsType != Unknown {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Bool", "rhsType", rhsType.String())
		}
	}
}

func isArithmetic(e ast.Expr) bool {
	bin, ok := e.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	switch bin.Op {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

func hasIntSuffix(name string) bool {
	if name == "" {
		return false
	}
	switch name[len(name)-1] {
	case '%', '&':
		return true
	}
	return false
}

func (a *Analyzer) analyzeDim(st *ast.DimStmt) {
	a.symbols[st.Name] = true
	a.trackSymbol(st.Name)

	if !st.IsArray {
		a.types[st.Name] = typeFromDeclared(st.Type)
		if a.types[st.Name] == Unknown && st.Type != "" {
			if entry, ok := a.findClass(st.Type); ok {
				a.types[st.Name] = Object
				a.varClass[st.Name] = entry.decl.Name
				a.trackClass(st.Name)
			}
		}
		if a.types[st.Name] == Unknown {
			a.types[st.Name] = typeFromSuffix(st.Name)
		}
		return
	}

	extent := -1
	if st.Size != nil {
		t := a.typeOfExpr(st.Size)
		if t != Int && t != Unknown {
			a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Int", "rhsType", t.String())
		}
		if lit, ok := st.Size.(*ast.IntLit); ok {
			if lit.Value < 0 {
				a.diag.Emit(diag.Error, diag.CodeNegativeArraySize, diag.Range{Start: st.Loc()})
			} else {
				extent = int(lit.Value)
			}
		}
	}
	a.types[st.Name] = ArrayInt
	a.arrayExtent[st.Name] = extent
	a.trackArray(st.Name)
}

func (a *Analyzer) analyzeOpen(st *ast.OpenStmt) {
	a.typeOfExpr(st.Path)
	if lit, ok := st.Channel.(*ast.IntLit); ok {
		ch := int(lit.Value)
		if a.openChans[ch] {
			a.diag.Emit(diag.Error, diag.CodeChannelAlreadyOpen, diag.Range{Start: st.Loc()}, "channel", strconv.Itoa(ch))
		}
		a.openChans[ch] = true
		a.trackChannel(ch)
		return
	}
	a.typeOfExpr(st.Channel)
}

func (a *Analyzer) analyzeInput(st *ast.InputStmt) {
	if st.Channel != nil {
		a.typeOfExpr(st.Channel)
	}
	for _, name := range st.Targets {
		a.defineVar(name, true)
	}
}

func (a *Analyzer) analyzeIf(st *ast.IfStmt) {
	a.analyzeCondition(st.Cond)
	for _, s := range st.Then {
		a.analyzeStmt(s)
	}
	for _, arm := range st.ElseIfs {
		a.analyzeCondition(arm.Cond)
		for _, s := range arm.Body {
			a.analyzeStmt(s)
		}
	}
	for _, s := range st.Else {
		a.analyzeStmt(s)
	}
}

// analyzeCondition implements spec.md §4.3 "Condition typing".
func (a *Analyzer) analyzeCondition(e ast.Expr) {
	t := a.typeOfExpr(e)
	if t == Bool || t == Unknown {
		return
	}
	if lit, ok := e.(*ast.IntLit); ok && (lit.Value == 0 || lit.Value == 1) {
		return
	}
	a.diag.Emit(diag.Error, diag.CodeNonBooleanCondition, diag.Range{Start: e.Loc()}, "type", t.String(), "expr", renderExpr(e))
}

// renderExpr is an abbreviated, best-effort source rendering used only
// for the non-boolean-condition diagnostic's {expr} slot.
func renderExpr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.VarExpr:
		return ex.Name
	case *ast.IntLit:
		return strconv.FormatInt(ex.Value, 10)
	case *ast.CallExpr:
		return ex.Name + "(...)"
	default:
		return "<expr>"
	}
}

func (a *Analyzer) inForIteratorScope(name string) bool {
	for _, v := range a.forStack {
		if v == name {
			return true
		}
	}
	return false
}

// analyzeFor implements spec.md §4.3 "FOR/NEXT".
func (a *Analyzer) analyzeFor(st *ast.ForStmt) {
	startT := a.typeOfExpr(st.Start)
	endT := a.typeOfExpr(st.End)
	if startT != Unknown && !isNumeric(startT) {
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Int", "rhsType", startT.String())
	}
	if endT != Unknown && !isNumeric(endT) {
		a.diag.Emit(diag.Error, diag.CodeOperandTypeMismatch, diag.Range{Start: st.Loc()}, "lhsType", "Int", "rhsType", endT.String())
	}
	if st.Step != nil {
		a.typeOfExpr(st.Step)
	}
	a.defineVar(st.Var, false)

	a.loopStack = append(a.loopStack, ast.ExitFor)
	a.forStack = append(a.forStack, st.Var)
	for _, body := range st.Body {
		a.analyzeStmt(body)
	}
	a.forStack = a.forStack[:len(a.forStack)-1]
	a.loopStack = a.loopStack[:len(a.loopStack)-1]

	if st.NextVar != "" && !strings.EqualFold(st.NextVar, st.Var) {
		a.diag.Emit(diag.Error, diag.CodeMismatchedNext, diag.Range{Start: st.Loc()}, "name", st.NextVar, "expected", st.Var)
	}
}

func (a *Analyzer) analyzeNext(st *ast.NextStmt) {
	if st.Var == "" || len(a.forStack) == 0 {
		return
	}
	expected := a.forStack[len(a.forStack)-1]
	if !strings.EqualFold(st.Var, expected) {
		a.diag.Emit(diag.Error, diag.CodeMismatchedNext, diag.Range{Start: st.Loc()}, "name", st.Var, "expected", expected)
	}
}

// analyzeExit implements spec.md §4.3 "EXIT".
func (a *Analyzer) analyzeExit(st *ast.ExitStmt) {
	for i := len(a.loopStack) - 1; i >= 0; i-- {
		if a.loopStack[i] == st.Kind {
			return
		}
	}
	a.diag.Emit(diag.Error, diag.CodeExitOutOfLoop, diag.Range{Start: st.Loc()}, "kind", exitKindName(st.Kind))
}

func exitKindName(k ast.ExitKind) string {
	switch k {
	case ast.ExitFor:
		return "FOR"
	case ast.ExitWhile:
		return "WHILE"
	case ast.ExitDo:
		return "DO"
	default:
		return "?"
	}
}

func (a *Analyzer) referenceLabel(target string, loc diag.Location) {
	if target == "" {
		return
	}
	a.labelsRefed[target] = true
	a.trackRef(target)
	if !a.labelsDefined[target] {
		a.diag.Emit(diag.Error, diag.CodeUnknownLabelTarget, diag.Range{Start: loc}, "name", target)
	}
}

// analyzeReturn implements spec.md §4.3's GOSUB/RETURN note: a bare
// RETURN is a GOSUB return; RETURN with a value at top level (outside
// a FUNCTION) emits B1008.
func (a *Analyzer) analyzeReturn(st *ast.ReturnStmt) {
	if st.Value == nil {
		return
	}
	t := a.typeOfExpr(st.Value)
	if !a.currentProcIsFunction {
		a.diag.Emit(diag.Error, diag.CodeTopLevelReturnValue, diag.Range{Start: st.Loc()})
		return
	}
	a.currentProcReturned = true
	_ = t
}

func (a *Analyzer) analyzeOnErrorGoto(st *ast.OnErrorGotoStmt) {
	if st.Target == "" {
		a.errHandlerActive = false
		a.errHandlerTarget = ""
		return
	}
	a.referenceLabel(st.Target, st.Loc())
	a.errHandlerActive = true
	a.errHandlerTarget = st.Target
}

// analyzeResume implements spec.md §4.3 "RESUME".
func (a *Analyzer) analyzeResume(st *ast.ResumeStmt) {
	if !a.errHandlerActive {
		a.diag.Emit(diag.Error, diag.CodeResumeNoHandler, diag.Range{Start: st.Loc()})
		return
	}
	if st.Mode == ast.ResumeLabel {
		a.referenceLabel(st.Label, st.Loc())
	}
}

func (a *Analyzer) analyzeCallStmt(st *ast.CallStmt) {
	sig, ok := a.procs[st.Name]
	if !ok {
		a.diag.Emit(diag.Error, diag.CodeDuplicateOrUnknown, diag.Range{Start: st.Loc()}, "name", st.Name)
		for _, arg := range st.Args {
			a.typeOfExpr(arg)
		}
		return
	}
	if sig.isFunction {
		a.diag.Emit(diag.Error, diag.CodeFunctionAsStatement, diag.Range{Start: st.Loc()}, "name", st.Name)
	}
	a.checkArgs(st.Name, st.Args, sig, st.Loc())
}

func (a *Analyzer) analyzeTry(st *ast.TryStmt) {
	if len(st.Body) == 0 && len(st.Catch) == 0 {
		a.diag.Emit(diag.Error, diag.CodeEmptyTryCatch, diag.Range{Start: st.Loc()})
	}
	for _, s := range st.Body {
		a.analyzeStmt(s)
	}
	for _, s := range st.Catch {
		a.analyzeStmt(s)
	}
}
