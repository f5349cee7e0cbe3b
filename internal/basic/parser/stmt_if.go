// Grounded on original_source/src/frontends/basic/Parser_Stmt_If.cpp:
// single- and multi-line IF, per spec.md §4.2 "IF blocks".
package parser

import (
	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) parseIf() ast.Stmt {
	loc := p.advance().Loc() // IF
	cond := p.expression()
	p.consume(token.KwThen, diag.CodeSyntaxGeneric)

	if p.check(token.EOL) {
		return p.parseMultiLineIf(loc, cond)
	}
	return p.parseSingleLineIf(loc, cond)
}

// parseMultiLineIf drives the statement sequencer with a terminator
// predicate accepting ELSEIF, ELSE, or END IF, collecting zero or more
// ELSEIF arms before an optional ELSE, per spec.md §4.2.
func (p *Parser) parseMultiLineIf(loc diag.Location, cond ast.Expr) ast.Stmt {
	isBranchKeyword := func() bool {
		return p.check(token.KwElseif) || p.check(token.KwElse) || p.isEndIf()
	}
	thenBody := p.statementSequence(isBranchKeyword)

	stmt := &ast.IfStmt{StmtBase: ast.NewStmtBase(loc), Cond: cond, Then: thenBody}

	for p.check(token.KwElseif) {
		p.advance()
		armCond := p.expression()
		p.consume(token.KwThen, diag.CodeSyntaxGeneric)
		body := p.statementSequence(isBranchKeyword)
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIfArm{Cond: armCond, Body: body})
	}

	if p.check(token.KwElse) {
		p.advance()
		stmt.Else = p.statementSequence(func() bool { return p.isEndIf() })
	}

	if p.isEndIf() {
		p.advance() // END
		p.advance() // IF
	} else {
		p.errorAt(loc, diag.CodeMissingEndIf)
		p.syncToStmtBoundary()
	}
	return stmt
}

// isEndIf reports whether the current position is "END IF" (two
// tokens: KwEnd then KwIf).
func (p *Parser) isEndIf() bool {
	return p.check(token.KwEnd) && p.peekAt(1).Kind == token.KwIf
}

// parseSingleLineIf parses one statement per branch, optionally
// skipping a line label between ELSE/ELSEIF tokens, per spec.md §4.2.
func (p *Parser) parseSingleLineIf(loc diag.Location, cond ast.Expr) ast.Stmt {
	then := []ast.Stmt{p.statement()}
	stmt := &ast.IfStmt{StmtBase: ast.NewStmtBase(loc), Cond: cond, Then: then}

	for p.check(token.KwElseif) {
		p.advance()
		armCond := p.expression()
		p.consume(token.KwThen, diag.CodeSyntaxGeneric)
		p.skipOptionalLabel()
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIfArm{Cond: armCond, Body: []ast.Stmt{p.statement()}})
	}

	if p.check(token.KwElse) {
		p.advance()
		p.skipOptionalLabel()
		stmt.Else = []ast.Stmt{p.statement()}
	}
	return stmt
}

func (p *Parser) skipOptionalLabel() {
	if p.check(token.Int) {
		p.advance()
	}
}
