package parser

import (
	"strconv"
	"strings"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

// Precedence levels per spec.md §4.2 "Expression parsing": logical
// OR/ORELSE < logical AND/ANDALSO < NOT < relational < additive <
// multiplicative < integer-divide/MOD < exponent < unary < primary.
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precRelational
	precAdditive
	precMultiplicative
	precIntDivMod
	precExponent
	precUnary
)

func binPrec(k token.Kind) int {
	switch k {
	case token.KwOr, token.KwOrElse:
		return precOr
	case token.KwAnd, token.KwAndAlso:
		return precAnd
	case token.Eq, token.Ne, token.Lt, token.Le, token.Gt, token.Ge:
		return precRelational
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash:
		return precMultiplicative
	case token.Backslash, token.KwMod:
		return precIntDivMod
	case token.Caret:
		return precExponent
	}
	return precNone
}

func (p *Parser) expression() ast.Expr { return p.parseBinary(precNone) }

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec := binPrec(p.peek().Kind)
		if prec <= minPrec {
			return left
		}
		opTok := p.advance()
		// Exponent is right-associative; everything else left-associative.
		nextMin := prec
		if opTok.Kind == token.Caret {
			nextMin = prec - 1
		}
		right := p.parseBinary(nextMin)
		loc := left.Loc()
		if opTok.Kind == token.KwOr || opTok.Kind == token.KwOrElse ||
			opTok.Kind == token.KwAnd || opTok.Kind == token.KwAndAlso {
			left = &ast.LogicalExpr{ExprBase: ast.NewExprBase(loc), Left: left, Op: string(opTok.Kind), Right: right}
		} else {
			left = &ast.BinaryExpr{ExprBase: ast.NewExprBase(loc), Left: left, Op: opTok.Lexeme, Right: right}
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.KwNot) {
		opTok := p.advance()
		// NOT's operand extends over relational and tighter operators.
		operand := p.parseBinary(precNot)
		return &ast.UnaryExpr{ExprBase: ast.NewExprBase(opTok.Loc()), Op: string(opTok.Kind), Operand: operand}
	}
	if p.check(token.Minus) || p.check(token.Plus) {
		opTok := p.advance()
		loc := opTok.Loc()
		operand := p.parseUnary()
		return &ast.UnaryExpr{ExprBase: ast.NewExprBase(loc), Op: string(opTok.Kind), Operand: operand}
	}
	return p.parsePrimary()
}

// parsePrimary wraps parseAtom with the "." member-access/method-call
// suffix chain of spec.md §3 ("member access", "method call"): any
// number of ".Name" or ".Name(args)" suffixes may follow an atom.
func (p *Parser) parsePrimary() ast.Expr {
	expr := p.parseAtom()
	for p.check(token.Dot) {
		dotLoc := p.peek().Loc()
		p.advance()
		memberTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
		if p.check(token.LParen) {
			p.advance()
			var args []ast.Expr
			if !p.check(token.RParen) {
				args = append(args, p.expression())
				for p.check(token.Comma) {
					p.advance()
					args = append(args, p.expression())
				}
			}
			p.consume(token.RParen, diag.CodeSyntaxGeneric)
			expr = &ast.MethodCallExpr{ExprBase: ast.NewExprBase(dotLoc), Target: expr, Method: memberTok.Lexeme, Args: args}
			continue
		}
		expr = &ast.MemberExpr{ExprBase: ast.NewExprBase(dotLoc), Target: expr, Member: memberTok.Lexeme}
	}
	return expr
}

// parseAtom handles literals, parenthesized expressions, ME/NEW/
// LBOUND/UBOUND, and the identifier-call/array-index/builtin-call
// ambiguity of spec.md §4.2: a known procedure wins a call, a declared
// array wins an index, a name in the closed ast.Builtins set wins a
// builtin call, otherwise the parser treats a trailing "(" as a user
// call and lets the semantic analyzer flag an unknown name.
func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()
	loc := tok.Loc()

	switch tok.Kind {
	case token.Int:
		p.advance()
		v, _ := strconv.ParseInt(strings.TrimRight(tok.Lexeme, "%&"), 10, 64)
		return &ast.IntLit{ExprBase: ast.NewExprBase(loc), Value: v}
	case token.Float:
		p.advance()
		v, _ := strconv.ParseFloat(strings.TrimRight(tok.Lexeme, "!#"), 64)
		return &ast.FloatLit{ExprBase: ast.NewExprBase(loc), Value: v}
	case token.String:
		p.advance()
		return &ast.StringLit{ExprBase: ast.NewExprBase(loc), Value: tok.Lexeme}
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{ExprBase: ast.NewExprBase(loc), Value: true}
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{ExprBase: ast.NewExprBase(loc), Value: false}
	case token.KwMe:
		p.advance()
		return &ast.MeExpr{ExprBase: ast.NewExprBase(loc)}
	case token.KwNew:
		p.advance()
		nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
		var args []ast.Expr
		if p.check(token.LParen) {
			p.advance()
			if !p.check(token.RParen) {
				args = append(args, p.expression())
				for p.check(token.Comma) {
					p.advance()
					args = append(args, p.expression())
				}
			}
			p.consume(token.RParen, diag.CodeSyntaxGeneric)
		}
		return &ast.NewExpr{ExprBase: ast.NewExprBase(loc), ClassName: nameTok.Lexeme, Args: args}
	case token.KwLBound, token.KwUBound:
		upper := tok.Kind == token.KwUBound
		p.advance()
		p.consume(token.LParen, diag.CodeSyntaxGeneric)
		nameTok := p.consume(token.Ident, diag.CodeSyntaxGeneric)
		p.consume(token.RParen, diag.CodeSyntaxGeneric)
		return &ast.ArrayBoundExpr{ExprBase: ast.NewExprBase(loc), Name: nameTok.Lexeme, Upper: upper}
	case token.LParen:
		p.advance()
		inner := p.expression()
		p.consume(token.RParen, diag.CodeSyntaxGeneric)
		return inner
	case token.Ident:
		p.advance()
		name := tok.Lexeme
		if p.check(token.LParen) {
			p.advance()
			var args []ast.Expr
			if !p.check(token.RParen) {
				args = append(args, p.expression())
				for p.check(token.Comma) {
					p.advance()
					args = append(args, p.expression())
				}
			}
			p.consume(token.RParen, diag.CodeSyntaxGeneric)
			if p.declaredArrays[name] && !p.knownProcs[name] {
				var idx ast.Expr
				if len(args) > 0 {
					idx = args[0]
				}
				return &ast.IndexExpr{ExprBase: ast.NewExprBase(loc), Name: name, Index: idx}
			}
			upperName := strings.ToUpper(name)
			if ast.Builtins[upperName] && !p.knownProcs[name] {
				return &ast.BuiltinCallExpr{ExprBase: ast.NewExprBase(loc), Name: upperName, Args: args}
			}
			return &ast.CallExpr{ExprBase: ast.NewExprBase(loc), Name: name, Args: args}
		}
		return &ast.VarExpr{ExprBase: ast.NewExprBase(loc), Name: name}
	}

	p.errorHere(diag.CodeSyntaxGeneric)
	p.advance()
	return &ast.IntLit{ExprBase: ast.NewExprBase(loc), Value: 0}
}
