// Grounded on original_source/src/frontends/basic/Parser_Stmt_Try.cpp:
// TRY/CATCH/END TRY and the USING namespace-import directive.
package parser

import (
	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) isEndTry() bool { return p.check(token.KwEnd) && p.peekAt(1).Kind == token.KwTry }

func (p *Parser) parseTry() ast.Stmt {
	loc := p.advance().Loc() // TRY
	body := p.statementSequence(func() bool { return p.check(token.KwCatch) || p.isEndTry() })

	var catch []ast.Stmt
	if p.check(token.KwCatch) {
		p.advance()
		catch = p.statementSequence(p.isEndTry)
	}

	if p.isEndTry() {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return &ast.TryStmt{StmtBase: ast.NewStmtBase(loc), Body: body, Catch: catch}
}

func (p *Parser) parseUsing() ast.Stmt {
	loc := p.advance().Loc() // USING
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	ns := nameTok.Lexeme
	for p.check(token.Dot) {
		p.advance()
		ns += "." + p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme
	}
	return &ast.UsingStmt{StmtBase: ast.NewStmtBase(loc), Namespace: ns}
}
