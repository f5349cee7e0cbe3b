// Grounded on original_source/src/frontends/basic/Parser_Stmt_Loop.cpp:
// WHILE/WEND, DO/LOOP (pre- and post-test WHILE/UNTIL), FOR/NEXT.
package parser

import (
	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) parseWhile() ast.Stmt {
	loc := p.advance().Loc() // WHILE
	cond := p.expression()

	isWend := func() bool { return p.check(token.KwWend) }
	body := p.statementSequence(isWend)

	if isWend() {
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return &ast.WhileStmt{StmtBase: ast.NewStmtBase(loc), Cond: cond, Body: body}
}

// parseDo handles all four DO/LOOP forms of spec.md's BASIC dialect:
// a pre-test WHILE/UNTIL immediately after DO, or a post-test
// WHILE/UNTIL after LOOP. Specifying both is a syntax error.
func (p *Parser) parseDo() ast.Stmt {
	loc := p.advance().Loc() // DO

	kind := ast.DoPlain
	var cond ast.Expr
	if p.check(token.KwWhile) {
		p.advance()
		cond = p.expression()
		kind = ast.DoWhilePre
	} else if p.check(token.KwUntil) {
		p.advance()
		cond = p.expression()
		kind = ast.DoUntilPre
	}

	isLoop := func() bool { return p.check(token.KwLoop) }
	body := p.statementSequence(isLoop)

	if !isLoop() {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
		return &ast.DoLoopStmt{StmtBase: ast.NewStmtBase(loc), Kind: kind, Cond: cond, Body: body}
	}
	p.advance() // LOOP

	if p.check(token.KwWhile) || p.check(token.KwUntil) {
		postIsWhile := p.check(token.KwWhile)
		p.advance()
		postCond := p.expression()
		if kind != ast.DoPlain {
			p.errorAt(loc, diag.CodeSyntaxGeneric)
		} else {
			cond = postCond
			if postIsWhile {
				kind = ast.DoWhilePost
			} else {
				kind = ast.DoUntilPost
			}
		}
	}
	return &ast.DoLoopStmt{StmtBase: ast.NewStmtBase(loc), Kind: kind, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	loc := p.advance().Loc() // FOR
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	p.consume(token.Eq, diag.CodeSyntaxGeneric)
	start := p.expression()
	p.consume(token.KwTo, diag.CodeSyntaxGeneric)
	end := p.expression()

	var step ast.Expr
	if p.check(token.KwStep) {
		p.advance()
		step = p.expression()
	}

	isNext := func() bool { return p.check(token.KwNext) }
	body := p.statementSequence(isNext)

	stmt := &ast.ForStmt{StmtBase: ast.NewStmtBase(loc), Var: nameTok.Lexeme, Start: start, End: end, Step: step, Body: body}

	if isNext() {
		p.advance()
		if p.check(token.Ident) {
			stmt.NextVar = p.advance().Lexeme
		}
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return stmt
}

// parseNext handles a bare NEXT statement reached outside of parseFor's
// own consumption (e.g. a stray NEXT, or one separated onto its own
// line by the sequencer's recovery path).
func (p *Parser) parseNext() ast.Stmt {
	loc := p.advance().Loc()
	name := ""
	if p.check(token.Ident) {
		name = p.advance().Lexeme
	}
	return &ast.NextStmt{StmtBase: ast.NewStmtBase(loc), Var: name}
}
