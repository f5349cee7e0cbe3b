package parser

import (
	"testing"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/lexer"
	"viperc/internal/diag"
)

func parseSource(t *testing.T, src string) (*ast.Program, *diag.Emitter) {
	t.Helper()
	e := diag.NewEmitter()
	toks := lexer.New(src, 0, e).Tokenize()
	prog := Parse(toks, e)
	return prog, e
}

func assertNoErrors(t *testing.T, e *diag.Emitter) {
	t.Helper()
	if e.HasErrors() {
		t.Fatalf("unexpected errors: %v", e.Diagnostics())
	}
}

func TestParseLetAndPrint(t *testing.T) {
	prog, e := parseSource(t, "LET X = 1 + 2\nPRINT X, \"hi\";\n")
	assertNoErrors(t, e)
	if len(prog.Main) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Main))
	}
	if _, ok := prog.Main[0].(*ast.LetStmt); !ok {
		t.Errorf("stmt 0 = %T, want *ast.LetStmt", prog.Main[0])
	}
	print, ok := prog.Main[1].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("stmt 1 = %T, want *ast.PrintStmt", prog.Main[1])
	}
	if len(print.Items) != 2 || print.Items[0].Sep != "," || print.Items[1].Sep != ";" {
		t.Errorf("unexpected PRINT items: %+v", print.Items)
	}
}

func TestParseMultiLineIf(t *testing.T) {
	src := "IF X > 0 THEN\nPRINT 1\nELSEIF X < 0 THEN\nPRINT 2\nELSE\nPRINT 3\nEND IF\n"
	prog, e := parseSource(t, src)
	assertNoErrors(t, e)
	ifStmt, ok := prog.Main[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.IfStmt", prog.Main[0])
	}
	if len(ifStmt.ElseIfs) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("unexpected shape: %+v", ifStmt)
	}
}

func TestParseMissingEndIfRecovers(t *testing.T) {
	src := "IF X > 0 THEN\nPRINT 1\nPRINT 2\n"
	_, e := parseSource(t, src)
	if !e.HasErrors() {
		t.Fatalf("expected a missing-END-IF diagnostic")
	}
	found := false
	for _, d := range e.Diagnostics() {
		if d.Code == diag.CodeMissingEndIf {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeMissingEndIf, got %v", e.Diagnostics())
	}
}

func TestParseSelectCase(t *testing.T) {
	src := "SELECT CASE X\nCASE 1, 2 TO 4\nPRINT 1\nCASE IS > 10\nPRINT 2\nCASE ELSE\nPRINT 3\nEND SELECT\n"
	prog, e := parseSource(t, src)
	assertNoErrors(t, e)
	sel, ok := prog.Main[0].(*ast.SelectCaseStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.SelectCaseStmt", prog.Main[0])
	}
	if len(sel.Arms) != 2 || !sel.HasElse {
		t.Fatalf("unexpected shape: %+v", sel)
	}
	if len(sel.Arms[0].Labels) != 1 || len(sel.Arms[0].Ranges) != 1 {
		t.Errorf("arm 0 labels/ranges mismatch: %+v", sel.Arms[0])
	}
	if len(sel.Arms[1].Relationals) != 1 || sel.Arms[1].Relationals[0].Op != ">" {
		t.Errorf("arm 1 relational mismatch: %+v", sel.Arms[1])
	}
}

func TestParseSelectCaseEmptyLabelList(t *testing.T) {
	src := "SELECT CASE X\nCASE\nPRINT 1\nEND SELECT\n"
	_, e := parseSource(t, src)
	found := false
	for _, d := range e.Diagnostics() {
		if d.Code == diag.CodeCaseEmptyLabelList {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeCaseEmptyLabelList, got %v", e.Diagnostics())
	}
}

func TestParseSelectCaseDuplicateElse(t *testing.T) {
	src := "SELECT CASE X\nCASE ELSE\nPRINT 1\nCASE ELSE\nPRINT 2\nEND SELECT\n"
	_, e := parseSource(t, src)
	found := false
	for _, d := range e.Diagnostics() {
		if d.Code == diag.CodeSelectDuplicateElse {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeSelectDuplicateElse, got %v", e.Diagnostics())
	}
}

func TestParseForNext(t *testing.T) {
	prog, e := parseSource(t, "FOR I = 1 TO 10 STEP 2\nPRINT I\nNEXT I\n")
	assertNoErrors(t, e)
	forStmt, ok := prog.Main[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.ForStmt", prog.Main[0])
	}
	if forStmt.Var != "I" || forStmt.Step == nil {
		t.Errorf("unexpected shape: %+v", forStmt)
	}
}

func TestParseDoLoopWhile(t *testing.T) {
	prog, e := parseSource(t, "DO WHILE X < 10\nX = X + 1\nLOOP\n")
	assertNoErrors(t, e)
	do, ok := prog.Main[0].(*ast.DoLoopStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.DoLoopStmt", prog.Main[0])
	}
	if do.Kind != ast.DoWhilePre {
		t.Errorf("want DoWhilePre, got %v", do.Kind)
	}
}

func TestParseDoLoopUntilPost(t *testing.T) {
	prog, e := parseSource(t, "DO\nX = X + 1\nLOOP UNTIL X > 10\n")
	assertNoErrors(t, e)
	do, ok := prog.Main[0].(*ast.DoLoopStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.DoLoopStmt", prog.Main[0])
	}
	if do.Kind != ast.DoUntilPost {
		t.Errorf("want DoUntilPost, got %v", do.Kind)
	}
}

func TestParseWhileWend(t *testing.T) {
	prog, e := parseSource(t, "WHILE X < 10\nX = X + 1\nWEND\n")
	assertNoErrors(t, e)
	if _, ok := prog.Main[0].(*ast.WhileStmt); !ok {
		t.Fatalf("stmt 0 = %T, want *ast.WhileStmt", prog.Main[0])
	}
}

func TestParseOpenCloseSeek(t *testing.T) {
	prog, e := parseSource(t, "OPEN \"data.txt\" FOR INPUT AS #1\nSEEK #1, 10\nCLOSE #1\n")
	assertNoErrors(t, e)
	open, ok := prog.Main[0].(*ast.OpenStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.OpenStmt", prog.Main[0])
	}
	if open.Mode != "INPUT" {
		t.Errorf("want mode INPUT, got %q", open.Mode)
	}
	if _, ok := prog.Main[1].(*ast.SeekStmt); !ok {
		t.Fatalf("stmt 1 = %T, want *ast.SeekStmt", prog.Main[1])
	}
	if _, ok := prog.Main[2].(*ast.CloseStmt); !ok {
		t.Fatalf("stmt 2 = %T, want *ast.CloseStmt", prog.Main[2])
	}
}

func TestParseInputWithPrompt(t *testing.T) {
	prog, e := parseSource(t, "INPUT \"Name: \", N\n")
	assertNoErrors(t, e)
	in, ok := prog.Main[0].(*ast.InputStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.InputStmt", prog.Main[0])
	}
	if in.Prompt != "Name: " || len(in.Targets) != 1 || in.Targets[0] != "N" {
		t.Errorf("unexpected shape: %+v", in)
	}
}

func TestParseLineInput(t *testing.T) {
	prog, e := parseSource(t, "LINE INPUT #1, L\n")
	assertNoErrors(t, e)
	in, ok := prog.Main[0].(*ast.InputStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.InputStmt", prog.Main[0])
	}
	if !in.LineOnly || in.Channel == nil {
		t.Errorf("unexpected shape: %+v", in)
	}
}

func TestParseTryCatch(t *testing.T) {
	prog, e := parseSource(t, "TRY\nPRINT 1\nCATCH\nPRINT 2\nEND TRY\n")
	assertNoErrors(t, e)
	tr, ok := prog.Main[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.TryStmt", prog.Main[0])
	}
	if len(tr.Body) != 1 || len(tr.Catch) != 1 {
		t.Errorf("unexpected shape: %+v", tr)
	}
}

func TestParseUsing(t *testing.T) {
	prog, e := parseSource(t, "USING Foo.Bar\n")
	assertNoErrors(t, e)
	u, ok := prog.Main[0].(*ast.UsingStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.UsingStmt", prog.Main[0])
	}
	if u.Namespace != "Foo.Bar" {
		t.Errorf("want Foo.Bar, got %q", u.Namespace)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog, e := parseSource(t, "FUNCTION Add(A, B) AS INTEGER\nRETURN A + B\nEND FUNCTION\n")
	assertNoErrors(t, e)
	if len(prog.Procs) != 1 {
		t.Fatalf("want 1 proc, got %d", len(prog.Procs))
	}
	proc := prog.Procs[0]
	if proc.Name != "Add" || !proc.IsFunction || proc.ReturnType != "INTEGER" || len(proc.Params) != 2 {
		t.Errorf("unexpected shape: %+v", proc)
	}
}

func TestParseSubWithReturnTypeIsError(t *testing.T) {
	_, e := parseSource(t, "SUB Foo() AS INTEGER\nEND SUB\n")
	found := false
	for _, d := range e.Diagnostics() {
		if d.Code == diag.CodeSubWithAsType {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeSubWithAsType, got %v", e.Diagnostics())
	}
}

func TestParseClassWithImplements(t *testing.T) {
	src := "CLASS Dog IMPLEMENTS Animal\nSUB Speak()\nPRINT \"Woof\"\nEND SUB\nEND CLASS\n"
	prog, e := parseSource(t, src)
	assertNoErrors(t, e)
	if len(prog.Main) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Main))
	}
	cls, ok := prog.Main[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.ClassDecl", prog.Main[0])
	}
	if len(cls.Implements) != 1 || cls.Implements[0] != "Animal" || len(cls.Members) != 1 {
		t.Errorf("unexpected shape: %+v", cls)
	}
}

func TestParseNamespace(t *testing.T) {
	src := "NAMESPACE Util\nPRINT 1\nEND NAMESPACE\n"
	prog, e := parseSource(t, src)
	assertNoErrors(t, e)
	ns, ok := prog.Main[0].(*ast.NamespaceDecl)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.NamespaceDecl", prog.Main[0])
	}
	if ns.Name != "Util" || len(ns.Body) != 1 {
		t.Errorf("unexpected shape: %+v", ns)
	}
}

func TestParseLabeledStatement(t *testing.T) {
	prog, e := parseSource(t, "100 PRINT 1\n")
	assertNoErrors(t, e)
	lbl, ok := prog.Main[0].(*ast.LabeledStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.LabeledStmt", prog.Main[0])
	}
	if !lbl.HasNumeric || lbl.NumericLabel != 100 {
		t.Errorf("unexpected shape: %+v", lbl)
	}
}

func TestParseGotoGosubReturn(t *testing.T) {
	prog, e := parseSource(t, "GOSUB 200\nGOTO 100\n200 RETURN\n")
	assertNoErrors(t, e)
	if _, ok := prog.Main[0].(*ast.GosubStmt); !ok {
		t.Errorf("stmt 0 = %T, want *ast.GosubStmt", prog.Main[0])
	}
	if _, ok := prog.Main[1].(*ast.GotoStmt); !ok {
		t.Errorf("stmt 1 = %T, want *ast.GotoStmt", prog.Main[1])
	}
	lbl, ok := prog.Main[2].(*ast.LabeledStmt)
	if !ok {
		t.Fatalf("stmt 2 = %T, want *ast.LabeledStmt", prog.Main[2])
	}
	ret, ok := lbl.Inner.(*ast.ReturnStmt)
	if !ok || !ret.IsGosubReturn {
		t.Errorf("unexpected inner: %+v", lbl.Inner)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog, e := parseSource(t, "LET X = 1 + 2 * 3 ^ 2\n")
	assertNoErrors(t, e)
	let := prog.Main[0].(*ast.LetStmt)
	bin, ok := let.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("want top-level +, got %+v", let.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("want * on the right of +, got %+v", bin.Right)
	}
	pow, ok := rhs.Right.(*ast.BinaryExpr)
	if !ok || pow.Op != "^" {
		t.Fatalf("want ^ nested under *, got %+v", rhs.Right)
	}
}

func TestParseArrayIndexVsCall(t *testing.T) {
	prog, e := parseSource(t, "DIM Arr(10)\nLET X = Arr(2)\nLET Y = Unknown(3)\n")
	assertNoErrors(t, e)
	let := prog.Main[1].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.IndexExpr); !ok {
		t.Errorf("want IndexExpr for declared array, got %T", let.Value)
	}
	let2 := prog.Main[2].(*ast.LetStmt)
	if _, ok := let2.Value.(*ast.CallExpr); !ok {
		t.Errorf("want CallExpr for unknown name, got %T", let2.Value)
	}
}

func TestParseBuiltinCallVsUserCall(t *testing.T) {
	prog, e := parseSource(t, "LET X = LEN(\"hi\")\nLET Y = Greet(\"hi\")\n")
	assertNoErrors(t, e)
	let := prog.Main[0].(*ast.LetStmt)
	bc, ok := let.Value.(*ast.BuiltinCallExpr)
	if !ok || bc.Name != "LEN" || len(bc.Args) != 1 {
		t.Fatalf("want BuiltinCallExpr LEN, got %+v", let.Value)
	}
	let2 := prog.Main[1].(*ast.LetStmt)
	if _, ok := let2.Value.(*ast.CallExpr); !ok {
		t.Errorf("want CallExpr for user call, got %T", let2.Value)
	}
}

func TestParseUserSubNamedLikeBuiltin(t *testing.T) {
	prog, e := parseSource(t, "SUB LEN(X)\nPRINT X\nEND SUB\nCALL LEN(1)\n")
	assertNoErrors(t, e)
	if len(prog.Procs) != 1 || prog.Procs[0].Name != "LEN" {
		t.Fatalf("want a user-declared LEN proc, got %+v", prog.Procs)
	}
}

func TestParseMeNewMemberMethodCall(t *testing.T) {
	src := "CLASS Counter\n" +
		"FUNCTION Value() AS INTEGER\n" +
		"RETURN 1\n" +
		"END FUNCTION\n" +
		"SUB Reset()\n" +
		"PRINT ME.Value()\n" +
		"END SUB\n" +
		"END CLASS\n" +
		"DIM C AS Counter\n" +
		"LET C = NEW Counter()\n" +
		"LET N = C.Value()\n" +
		"LET M = C.Value\n"
	prog, e := parseSource(t, src)
	assertNoErrors(t, e)
	cls, ok := prog.Main[0].(*ast.ClassDecl)
	if !ok || cls.Name != "Counter" || len(cls.Members) != 2 {
		t.Fatalf("want ClassDecl Counter with 2 members, got %+v", prog.Main[0])
	}
	printStmt := cls.Members[1].Body[0].(*ast.PrintStmt)
	mc, ok := printStmt.Items[0].Value.(*ast.MethodCallExpr)
	if !ok || mc.Method != "Value" {
		t.Fatalf("want MethodCallExpr on ME.Value(), got %+v", printStmt.Items[0].Value)
	}
	if _, ok := mc.Target.(*ast.MeExpr); !ok {
		t.Errorf("want MeExpr target, got %T", mc.Target)
	}

	letNew := prog.Main[2].(*ast.LetStmt)
	ne, ok := letNew.Value.(*ast.NewExpr)
	if !ok || ne.ClassName != "Counter" {
		t.Fatalf("want NewExpr Counter, got %+v", letNew.Value)
	}

	letCall := prog.Main[3].(*ast.LetStmt)
	if _, ok := letCall.Value.(*ast.MethodCallExpr); !ok {
		t.Errorf("want MethodCallExpr for C.Value(), got %T", letCall.Value)
	}

	letMember := prog.Main[4].(*ast.LetStmt)
	if _, ok := letMember.Value.(*ast.MemberExpr); !ok {
		t.Errorf("want MemberExpr for C.Value, got %T", letMember.Value)
	}
}

func TestParseArrayBounds(t *testing.T) {
	prog, e := parseSource(t, "DIM Arr(10)\nLET Lo = LBOUND(Arr)\nLET Hi = UBOUND(Arr)\n")
	assertNoErrors(t, e)
	lo := prog.Main[1].(*ast.LetStmt)
	lb, ok := lo.Value.(*ast.ArrayBoundExpr)
	if !ok || lb.Upper || lb.Name != "Arr" {
		t.Fatalf("want ArrayBoundExpr LBOUND(Arr), got %+v", lo.Value)
	}
	hi := prog.Main[2].(*ast.LetStmt)
	ub, ok := hi.Value.(*ast.ArrayBoundExpr)
	if !ok || !ub.Upper || ub.Name != "Arr" {
		t.Fatalf("want ArrayBoundExpr UBOUND(Arr), got %+v", hi.Value)
	}
}
