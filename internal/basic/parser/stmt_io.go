// Grounded on original_source/src/frontends/basic/Parser_Stmt_IO.cpp:
// PRINT/WRITE/OPEN/CLOSE/SEEK/INPUT/LINE INPUT, per spec.md §4.2 "I/O
// statements".
package parser

import (
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

// parseChannel consumes a leading "#<expr>" channel prefix if present,
// returning nil when absent.
func (p *Parser) parseChannel() ast.Expr {
	if !p.check(token.Hash) {
		return nil
	}
	p.advance()
	return p.expression()
}

func (p *Parser) parsePrint() ast.Stmt {
	loc := p.advance().Loc() // PRINT
	stmt := &ast.PrintStmt{StmtBase: ast.NewStmtBase(loc)}

	stmt.Channel = p.parseChannel()
	if stmt.Channel != nil && p.check(token.Comma) {
		p.advance()
	}

	for !p.check(token.EOL) && !p.isAtEnd() && !p.check(token.Colon) {
		val := p.expression()
		sep := ""
		if p.check(token.Comma) {
			p.advance()
			sep = ","
		} else if p.check(token.Semicolon) {
			p.advance()
			sep = ";"
		}
		stmt.Items = append(stmt.Items, ast.PrintItem{Value: val, Sep: sep})
		if sep == "" {
			break
		}
	}
	return stmt
}

// parseWrite handles the channel-only WRITE# form; spec.md's BASIC
// dialect has no console WRITE.
func (p *Parser) parseWrite() ast.Stmt {
	loc := p.advance().Loc() // WRITE
	stmt := &ast.WriteStmt{StmtBase: ast.NewStmtBase(loc)}
	stmt.Channel = p.parseChannel()
	if stmt.Channel == nil {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
	}
	if p.check(token.Comma) {
		p.advance()
	}
	for !p.check(token.EOL) && !p.isAtEnd() && !p.check(token.Colon) {
		stmt.Items = append(stmt.Items, p.expression())
		if !p.check(token.Comma) {
			break
		}
		p.advance()
	}
	return stmt
}

func (p *Parser) parseOpen() ast.Stmt {
	loc := p.advance().Loc() // OPEN
	path := p.expression()
	p.consume(token.KwFor, diag.CodeSyntaxGeneric)
	mode := strings.ToUpper(p.advance().Lexeme) // INPUT keyword, or OUTPUT/APPEND/BINARY/RANDOM identifier
	p.consume(token.KwAs, diag.CodeSyntaxGeneric)
	p.consume(token.Hash, diag.CodeSyntaxGeneric)
	channel := p.expression()
	return &ast.OpenStmt{StmtBase: ast.NewStmtBase(loc), Path: path, Mode: mode, Channel: channel}
}

func (p *Parser) parseClose() ast.Stmt {
	loc := p.advance().Loc() // CLOSE
	var channel ast.Expr
	if p.check(token.Hash) {
		p.advance()
		channel = p.expression()
	}
	return &ast.CloseStmt{StmtBase: ast.NewStmtBase(loc), Channel: channel}
}

func (p *Parser) parseSeek() ast.Stmt {
	loc := p.advance().Loc() // SEEK
	p.consume(token.Hash, diag.CodeSyntaxGeneric)
	channel := p.expression()
	p.consume(token.Comma, diag.CodeSyntaxGeneric)
	pos := p.expression()
	return &ast.SeekStmt{StmtBase: ast.NewStmtBase(loc), Channel: channel, Position: pos}
}

func (p *Parser) parseInput() ast.Stmt {
	loc := p.advance().Loc() // INPUT
	stmt := &ast.InputStmt{StmtBase: ast.NewStmtBase(loc)}

	stmt.Channel = p.parseChannel()
	if stmt.Channel != nil {
		if p.check(token.Comma) {
			p.advance()
		}
	} else if p.check(token.String) {
		stmt.Prompt = p.advance().Lexeme
		if p.check(token.Semicolon) || p.check(token.Comma) {
			p.advance()
		}
	}

	stmt.Targets = append(stmt.Targets, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
	for p.check(token.Comma) {
		p.advance()
		stmt.Targets = append(stmt.Targets, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
	}
	// INPUT# with more than one target is rejected with its own message;
	// LINE INPUT#'s single-target restriction is enforced in
	// parseLineInput.
	if stmt.Channel != nil && len(stmt.Targets) > 1 && p.diag != nil {
		p.diag.EmitMessage(diag.Error, diag.CodeSyntaxGeneric,
			"INPUT# with more than one target is not yet supported", diag.Range{Start: loc})
	}
	return stmt
}

func (p *Parser) parseLineInput() ast.Stmt {
	loc := p.advance().Loc() // LINE
	p.consume(token.KwInput, diag.CodeSyntaxGeneric)
	stmt := &ast.InputStmt{StmtBase: ast.NewStmtBase(loc), LineOnly: true}
	stmt.Channel = p.parseChannel()
	if stmt.Channel != nil && p.check(token.Comma) {
		p.advance()
	}
	stmt.Targets = append(stmt.Targets, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
	return stmt
}
