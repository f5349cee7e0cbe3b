// Grounded on original_source/src/frontends/basic/Parser_Stmt_Proc.cpp:
// SUB/FUNCTION declarations, CLASS/INTERFACE/NAMESPACE blocks, per
// spec.md §4.2 "Procedures" and its supplemented class/namespace
// surface.
package parser

import (
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) isEndKw(k token.Kind) bool { return p.check(token.KwEnd) && p.peekAt(1).Kind == k }

// parseParamList parses a comma-delimited "(name [()] [AS type], ...)"
// parameter list; a trailing "()" on the name marks an array parameter.
func (p *Parser) parseParamList() []ast.Param {
	p.consume(token.LParen, diag.CodeSyntaxGeneric)
	var params []ast.Param
	if !p.check(token.RParen) {
		params = append(params, p.parseOneParam())
		for p.check(token.Comma) {
			p.advance()
			params = append(params, p.parseOneParam())
		}
	}
	p.consume(token.RParen, diag.CodeSyntaxGeneric)
	return params
}

func (p *Parser) parseOneParam() ast.Param {
	name := p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme
	isArray := false
	if p.check(token.LParen) {
		p.advance()
		p.consume(token.RParen, diag.CodeSyntaxGeneric)
		isArray = true
	}
	typ := ""
	if p.check(token.KwAs) {
		p.advance()
		typ = strings.ToUpper(p.advance().Lexeme)
	}
	return ast.Param{Name: name, Type: typ, IsArray: isArray}
}

// parseProc handles both "SUB name(params)" and "FUNCTION name(params)
// AS type"; a SUB with a trailing "AS type" emits B4007, per spec.md.
func (p *Parser) parseProc() ast.ProcDecl {
	loc := p.peek().Loc()
	isFunction := p.check(token.KwFunction)
	p.advance() // SUB or FUNCTION
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	p.knownProcs[nameTok.Lexeme] = true
	params := p.parseParamList()

	returnType := ""
	if p.check(token.KwAs) {
		p.advance()
		returnType = strings.ToUpper(p.advance().Lexeme)
		if !isFunction {
			p.errorAt(loc, diag.CodeSubWithAsType)
		}
	}

	endKind := token.KwFunction
	if !isFunction {
		endKind = token.KwSub
	}
	body := p.statementSequence(func() bool { return p.isEndKw(endKind) })
	if p.isEndKw(endKind) {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}

	return ast.ProcDecl{
		StmtBase:   ast.NewStmtBase(loc),
		Name:       nameTok.Lexeme,
		Params:     params,
		ReturnType: returnType,
		IsFunction: isFunction,
		Body:       body,
	}
}

func (p *Parser) parseClass() ast.Stmt {
	loc := p.advance().Loc() // CLASS
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	decl := &ast.ClassDecl{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme}

	if p.check(token.Ident) && strings.EqualFold(p.peek().Lexeme, "IMPLEMENTS") {
		p.advance()
		decl.Implements = append(decl.Implements, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
		for p.check(token.Comma) {
			p.advance()
			decl.Implements = append(decl.Implements, p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme)
		}
	}
	p.skipEOLs()

	for !p.isAtEnd() && !p.isEndKw(token.KwClass) {
		p.skipEOLs()
		if p.isAtEnd() || p.isEndKw(token.KwClass) {
			break
		}
		if p.check(token.KwSub) || p.check(token.KwFunction) {
			decl.Members = append(decl.Members, p.parseProc())
		} else {
			p.errorHere(diag.CodeSyntaxGeneric)
			p.syncToStmtBoundary()
		}
	}
	if p.isEndKw(token.KwClass) {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return decl
}

func (p *Parser) parseInterface() ast.Stmt {
	loc := p.advance().Loc() // INTERFACE
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	decl := &ast.InterfaceDecl{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme}
	p.skipEOLs()

	for !p.isAtEnd() && !p.isEndKw(token.KwInterface) {
		p.skipEOLs()
		if p.isAtEnd() || p.isEndKw(token.KwInterface) {
			break
		}
		if p.check(token.KwSub) || p.check(token.KwFunction) {
			decl.Methods = append(decl.Methods, p.parseProcSignature())
		} else {
			p.errorHere(diag.CodeSyntaxGeneric)
			p.syncToStmtBoundary()
		}
	}
	if p.isEndKw(token.KwInterface) {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return decl
}

// parseProcSignature parses a bodyless SUB/FUNCTION signature for
// interface method declarations.
func (p *Parser) parseProcSignature() ast.ProcDecl {
	loc := p.peek().Loc()
	isFunction := p.check(token.KwFunction)
	p.advance()
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	params := p.parseParamList()
	returnType := ""
	if p.check(token.KwAs) {
		p.advance()
		returnType = strings.ToUpper(p.advance().Lexeme)
	}
	return ast.ProcDecl{StmtBase: ast.NewStmtBase(loc), Name: nameTok.Lexeme, Params: params, ReturnType: returnType, IsFunction: isFunction}
}

func (p *Parser) parseNamespace() ast.Stmt {
	loc := p.advance().Loc() // NAMESPACE
	nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
	name := nameTok.Lexeme
	for p.check(token.Dot) {
		p.advance()
		name += "." + p.consume(token.Ident, diag.CodeSyntaxGeneric).Lexeme
	}
	p.skipEOLs()

	body := p.statementSequence(func() bool { return p.isEndKw(token.KwNamespace) })
	if p.isEndKw(token.KwNamespace) {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSyntaxGeneric)
		p.syncToStmtBoundary()
	}
	return &ast.NamespaceDecl{StmtBase: ast.NewStmtBase(loc), Name: name, Body: body}
}
