// Grounded on original_source/src/frontends/basic/Parser_Stmt_Select.cpp:
// SELECT CASE with numeric/range/relational/string arms, per spec.md
// §4.2 "SELECT CASE".
package parser

import (
	"strconv"

	"viperc/internal/basic/ast"
	"viperc/internal/basic/token"
	"viperc/internal/diag"
)

func (p *Parser) parseSelectCase() ast.Stmt {
	loc := p.advance().Loc() // SELECT
	p.consume(token.KwCase, diag.CodeSyntaxGeneric)
	selector := p.expression()
	p.skipEOLs()

	stmt := &ast.SelectCaseStmt{StmtBase: ast.NewStmtBase(loc), Selector: selector}

	isEndSelect := func() bool { return p.check(token.KwEnd) && p.peekAt(1).Kind == token.KwSelect }

	for {
		p.skipEOLs()
		if p.isAtEnd() || isEndSelect() {
			break
		}
		if !p.check(token.KwCase) {
			p.errorHere(diag.CodeSyntaxGeneric)
			p.syncToStmtBoundary()
			continue
		}
		armLoc := p.peek().Loc()
		p.advance() // CASE

		if p.check(token.KwElse) {
			p.advance()
			if stmt.HasElse {
				p.errorAt(armLoc, diag.CodeSelectDuplicateElse)
			}
			stmt.HasElse = true
			stmt.Else = p.statementSequence(func() bool {
				return p.check(token.KwCase) || isEndSelect()
			})
			continue
		}

		arm := p.parseCaseArm(armLoc)
		arm.Body = p.statementSequence(func() bool {
			return p.check(token.KwCase) || isEndSelect()
		})
		stmt.Arms = append(stmt.Arms, arm)
	}

	if isEndSelect() {
		p.advance()
		p.advance()
	} else {
		p.errorAt(loc, diag.CodeSelectMissingEndSelect)
		p.syncToStmtBoundary()
	}
	return stmt
}

// parseCaseArm parses the comma-delimited label list of one CASE arm:
// integer literals, integer ranges "lo TO hi", relational forms
// "IS <op> [+|-]int", and string literals, per spec.md §4.2.
func (p *Parser) parseCaseArm(loc diag.Location) ast.CaseArm {
	arm := ast.CaseArm{Loc: loc}
	first := true
	for first || p.check(token.Comma) {
		if !first {
			p.advance()
		}
		first = false
		if p.check(token.EOL) || p.isAtEnd() {
			break
		}

		if p.check(token.KwIs) {
			p.advance()
			op := string(p.advance().Kind)
			sign := int64(1)
			if p.check(token.Minus) {
				p.advance()
				sign = -1
			} else if p.check(token.Plus) {
				p.advance()
			}
			v := p.consumeIntLiteral()
			arm.Relationals = append(arm.Relationals, ast.CaseRelational{Op: op, Value: sign * v})
			continue
		}

		if p.check(token.String) {
			arm.StringLabels = append(arm.StringLabels, p.advance().Lexeme)
			continue
		}

		sign := int64(1)
		if p.check(token.Minus) {
			p.advance()
			sign = -1
		}
		lo := sign * p.consumeIntLiteral()
		if p.check(token.KwTo) {
			p.advance()
			hiSign := int64(1)
			if p.check(token.Minus) {
				p.advance()
				hiSign = -1
			}
			hi := hiSign * p.consumeIntLiteral()
			if hi < lo {
				p.errorAt(loc, diag.CodeSelectInvalidRange,
					"lo", strconv.FormatInt(lo, 10), "hi", strconv.FormatInt(hi, 10))
			}
			arm.Ranges = append(arm.Ranges, ast.CaseRange{Lo: lo, Hi: hi})
			continue
		}
		arm.Labels = append(arm.Labels, lo)
	}

	if len(arm.Labels) == 0 && len(arm.Ranges) == 0 && len(arm.Relationals) == 0 && len(arm.StringLabels) == 0 {
		p.errorAt(loc, diag.CodeCaseEmptyLabelList)
	}
	return arm
}

func (p *Parser) consumeIntLiteral() int64 {
	tok := p.consume(token.Int, diag.CodeSyntaxGeneric)
	v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
	return v
}
