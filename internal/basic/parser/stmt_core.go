// Parser_Stmt_Core-equivalent: DIM/REDIM/CONST/STATIC/SHARED/LET and
// the remaining simple one-line statements (END, RANDOMIZE, CLS,
// COLOR, LOCATE, CURSOR, ALTSCREEN, SLEEP, CALL), grounded on
// original_source/src/frontends/basic/Parser_Stmt_Core.cpp.
package parser

import (
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) parseLet() ast.Stmt {
	loc := p.advance().Loc() // consume LET
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	p.consume(token.Eq, diag.CodeSyntaxGeneric)
	val := p.expression()
	return &ast.LetStmt{StmtBase: ast.NewStmtBase(loc), Target: nameTok.Lexeme, Value: val}
}

func (p *Parser) parseDim() ast.Stmt  { return p.dimOrRedim(false) }
func (p *Parser) parseRedim() ast.Stmt { return p.dimOrRedim(true) }

func (p *Parser) dimOrRedim(isRedim bool) ast.Stmt {
	loc := p.advance().Loc()
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	var size ast.Expr
	isArray := false
	if p.check(token.LParen) {
		isArray = true
		p.advance()
		if !p.check(token.RParen) {
			size = p.expression()
		}
		p.consume(token.RParen, diag.CodeSyntaxGeneric)
	}
	typ := ""
	if p.check(token.KwAs) {
		p.advance()
		typ = strings.ToUpper(p.advance().Lexeme)
	}
	isArray = isArray || isRedim
	p.declaredArrays[nameTok.Lexeme] = isArray
	return &ast.DimStmt{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme, Size: size, Type: typ, IsRedim: isRedim, IsArray: isArray}
}

func (p *Parser) parseConst() ast.Stmt {
	loc := p.advance().Loc()
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	p.consume(token.Eq, diag.CodeSyntaxGeneric)
	val := p.expression()
	return &ast.ConstStmt{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme, Value: val}
}

func (p *Parser) parseStatic() ast.Stmt  { return p.nameListStmt(true) }
func (p *Parser) parseShared() ast.Stmt { return p.nameListStmt(false) }

func (p *Parser) nameListStmt(static bool) ast.Stmt {
	loc := p.advance().Loc()
	names := []string{p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme}
	for p.check(token.Comma) {
		p.advance()
		names = append(names, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
	}
	if static {
		return &ast.StaticStmt{StmtBase: ast.NewStmtBase(loc), Names: names}
	}
	return &ast.SharedStmt{StmtBase: ast.NewStmtBase(loc), Names: names}
}

func (p *Parser) parseEndOrEndBlock() ast.Stmt {
	loc := p.peek().Loc()
	p.advance() // END
	return &ast.EndStmt{StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseRandomize() ast.Stmt {
	loc := p.advance().Loc()
	var seed ast.Expr
	if !p.check(token.EOL) && !p.isAtEnd() && !p.check(token.Colon) {
		seed = p.expression()
	}
	return &ast.RandomizeStmt{StmtBase: ast.NewStmtBase(loc), Seed: seed}
}

func (p *Parser) parseCls() ast.Stmt {
	loc := p.advance().Loc()
	return &ast.ClsStmt{StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseColor() ast.Stmt {
	loc := p.advance().Loc()
	fg := p.expression()
	var bg ast.Expr
	if p.check(token.Comma) {
		p.advance()
		bg = p.expression()
	}
	return &ast.ColorStmt{StmtBase: ast.NewStmtBase(loc), Foreground: fg, Background: bg}
}

func (p *Parser) parseLocate() ast.Stmt {
	loc := p.advance().Loc()
	row := p.expression()
	p.consume(token.Comma, diag.CodeSyntaxGeneric)
	col := p.expression()
	return &ast.LocateStmt{StmtBase: ast.NewStmtBase(loc), Row: row, Col: col}
}

func (p *Parser) parseCursorStmt() ast.Stmt {
	loc := p.advance().Loc()
	return &ast.CursorStmt{StmtBase: ast.NewStmtBase(loc), Visible: p.expression()}
}

func (p *Parser) parseAltscreen() ast.Stmt {
	loc := p.advance().Loc()
	return &ast.AltscreenStmt{StmtBase: ast.NewStmtBase(loc), On: p.expression()}
}

func (p *Parser) parseSleep() ast.Stmt {
	loc := p.advance().Loc()
	return &ast.SleepStmt{StmtBase: ast.NewStmtBase(loc), Millis: p.expression()}
}

func (p *Parser) parseCall() ast.Stmt {
	loc := p.advance().Loc()
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	args := p.parseOptionalCallArgs()
	return &ast.CallStmt{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme, Args: args}
}

func (p *Parser) parseGoto() ast.Stmt {
	loc := p.advance().Loc()
	target := p.labelTargetText()
	return &ast.GotoStmt{StmtBase: ast.NewStmtBase(loc), Target: target}
}

func (p *Parser) parseGosub() ast.Stmt {
	loc := p.advance().Loc()
	target := p.labelTargetText()
	return &ast.GosubStmt{StmtBase: ast.NewStmtBase(loc), Target: target}
}

// labelTargetText accepts either a numeric label or an identifier as
// a GOTO/GOSUB/error-handler target.
func (p *Parser) labelTargetText() string {
	if p.check(token.Int) {
		return p.advance().Lexeme
	}
	if p.check(token.Ident) {
		return p.advance().Lexeme
	}
	p.errorHere(diag.CodeSyntaxGeneric)
	return ""
}

func (p *Parser) parseReturn() ast.Stmt {
	loc := p.advance().Loc()
	var val ast.Expr
	isGosubReturn := true
	if !p.check(token.EOL) && !p.isAtEnd() && !p.check(token.Colon) {
		val = p.expression()
		isGosubReturn = false
	}
	return &ast.ReturnStmt{StmtBase: ast.NewStmtBase(loc), Value: val, IsGosubReturn: isGosubReturn}
}

func (p *Parser) parseOnErrorGoto() ast.Stmt {
	loc := p.advance().Loc() // ON
	p.consume(token.KwError, diag.CodeSyntaxGeneric)
	p.consume(token.KwGoto, diag.CodeSyntaxGeneric)
	target := ""
	if p.check(token.Int) && p.peek().Lexeme == "0" {
		p.advance()
	} else {
		target = p.labelTargetText()
	}
	return &ast.OnErrorGotoStmt{StmtBase: ast.NewStmtBase(loc), Target: target}
}

func (p *Parser) parseResume() ast.Stmt {
	loc := p.advance().Loc()
	if p.check(token.KwNext) {
		p.advance()
		return &ast.ResumeStmt{StmtBase: ast.NewStmtBase(loc), Mode: ast.ResumeNext}
	}
	if p.check(token.Ident) || p.check(token.Int) {
		label := p.labelTargetText()
		return &ast.ResumeStmt{StmtBase: ast.NewStmtBase(loc), Mode: ast.ResumeLabel, Label: label}
	}
	return &ast.ResumeStmt{StmtBase: ast.NewStmtBase(loc), Mode: ast.ResumeHere}
}

func (p *Parser) parseExit() ast.Stmt {
	loc := p.advance().Loc()
	var kind ast.ExitKind
	switch p.peek().Kind {
	case token.KwFor:
		p.advance()
		kind = ast.ExitFor
	case token.KwWhile:
		p.advance()
		kind = ast.ExitWhile
	case token.KwDo:
		p.advance()
		kind = ast.ExitDo
	default:
		p.errorHere(diag.CodeExitOperand)
	}
	return &ast.ExitStmt{StmtBase: ast.NewStmtBase(loc), Kind: kind}
}
