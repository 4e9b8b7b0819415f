// Package parser turns CEL source text into a common/ast.AST and expands
// the fixed macro set (has, all, exists, exists_one, map, filter) into
// comprehension nodes, recording each pre-expansion call in
// ast.SourceInfo.MacroCalls so a formatter can recover surface syntax
// without re-parsing (spec §4.1).
package parser

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
)

// Parser is a single-pass recursive-descent parser over the fixed CEL
// grammar. Precedence is encoded directly in the call ladder
// (ternary → or → and → relation → addition → multiplication → unary →
// member → primary) rather than a Pratt table, since CEL's operator set
// is small and fixed.
type Parser struct {
	lexer *Lexer

	tok  Token
	peek Token

	info   *ast.SourceInfo
	issues *Issues
	nextID ast.ExprID
}

// Parse parses source into a checked-ready AST and expands macros.
// description names the source for error messages (e.g. a file path).
func Parse(source, description string) (*ast.AST, *Issues) {
	tree, issues := ParseOnly(source, description)
	if issues.HasErrors() {
		return tree, issues
	}
	expandMacros(tree, issues)
	return tree, issues
}

// ParseOnly parses source without running the macro expander, used by
// tooling (e.g. a formatter) that wants the raw surface tree.
func ParseOnly(source, description string) (*ast.AST, *Issues) {
	p := &Parser{
		lexer:  NewLexer(source),
		info:   ast.NewSourceInfo(description, source),
		issues: newIssues(),
	}
	p.advance()
	p.advance()

	root := p.parseExpr()
	if p.tok.Type != EOF {
		p.errorf(p.tok.Pos, "unexpected trailing input %q", p.tok.Literal)
	}
	for _, lexErr := range p.lexer.Errors() {
		p.issues.add(0, p.info, lexErr.Pos, "%s", lexErr.Message)
	}
	return ast.NewAST(root, p.info), p.issues
}

func (p *Parser) advance() {
	p.tok = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) id(pos Position) ast.ExprID {
	p.nextID++
	p.info.SetPosition(p.nextID, pos)
	return p.nextID
}

func (p *Parser) errorf(pos Position, format string, args ...interface{}) {
	p.issues.add(0, p.info, pos, format, args...)
}

func (p *Parser) expect(tt TokenType, what string) Token {
	tok := p.tok
	if tok.Type != tt {
		p.errorf(tok.Pos, "expected %s, got %q", what, tok.Literal)
		return tok
	}
	p.advance()
	return tok
}

// --- Precedence ladder ---

func (p *Parser) parseExpr() ast.Expr { return p.parseTernary() }

func (p *Parser) parseTernary() ast.Expr {
	start := p.tok.Pos.Start
	cond := p.parseOr()
	if p.tok.Type != QUESTION {
		return cond
	}
	p.advance()
	thenExpr := p.parseOr()
	p.expect(COLON, "':'")
	elseExpr := p.parseExpr()
	id := p.id(Position{start, p.prevEnd()})
	return ast.NewCall(id, nil, operators.Conditional, []ast.Expr{cond, thenExpr, elseExpr})
}

func (p *Parser) parseOr() ast.Expr {
	start := p.tok.Pos.Start
	left := p.parseAnd()
	for p.tok.Type == OR {
		p.advance()
		right := p.parseAnd()
		id := p.id(Position{start, p.prevEnd()})
		left = ast.NewCall(id, nil, operators.LogicalOr, []ast.Expr{left, right})
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	start := p.tok.Pos.Start
	left := p.parseRelation()
	for p.tok.Type == AND {
		p.advance()
		right := p.parseRelation()
		id := p.id(Position{start, p.prevEnd()})
		left = ast.NewCall(id, nil, operators.LogicalAnd, []ast.Expr{left, right})
	}
	return left
}

var relOps = map[TokenType]string{
	EQ: operators.Equals, NE: operators.NotEquals,
	LT: operators.Less, LE: operators.LessEquals,
	GT: operators.Greater, GE: operators.GreaterEquals,
	IN: operators.In,
}

func (p *Parser) parseRelation() ast.Expr {
	start := p.tok.Pos.Start
	left := p.parseAddition()
	for {
		op, ok := relOps[p.tok.Type]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseAddition()
		id := p.id(Position{start, p.prevEnd()})
		left = ast.NewCall(id, nil, op, []ast.Expr{left, right})
	}
}

func (p *Parser) parseAddition() ast.Expr {
	start := p.tok.Pos.Start
	left := p.parseMultiplication()
	for p.tok.Type == PLUS || p.tok.Type == MINUS {
		op := operators.Add
		if p.tok.Type == MINUS {
			op = operators.Subtract
		}
		p.advance()
		right := p.parseMultiplication()
		id := p.id(Position{start, p.prevEnd()})
		left = ast.NewCall(id, nil, op, []ast.Expr{left, right})
	}
	return left
}

func (p *Parser) parseMultiplication() ast.Expr {
	start := p.tok.Pos.Start
	left := p.parseUnary()
	for p.tok.Type == STAR || p.tok.Type == SLASH || p.tok.Type == PERCENT {
		var op string
		switch p.tok.Type {
		case STAR:
			op = operators.Multiply
		case SLASH:
			op = operators.Divide
		case PERCENT:
			op = operators.Modulo
		}
		p.advance()
		right := p.parseUnary()
		id := p.id(Position{start, p.prevEnd()})
		left = ast.NewCall(id, nil, op, []ast.Expr{left, right})
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.tok.Pos.Start
	switch p.tok.Type {
	case BANG:
		p.advance()
		arg := p.parseUnary()
		id := p.id(Position{start, p.prevEnd()})
		return ast.NewCall(id, nil, operators.LogicalNot, []ast.Expr{arg})
	case MINUS:
		p.advance()
		arg := p.parseUnary()
		id := p.id(Position{start, p.prevEnd()})
		return ast.NewCall(id, nil, operators.Negate, []ast.Expr{arg})
	default:
		return p.parseMember()
	}
}

// prevEnd approximates the end offset of the expression just parsed: the
// start of the current lookahead token, which immediately follows it.
func (p *Parser) prevEnd() int { return p.tok.Pos.Start }

// --- Postfix member chain: select, optional select, index, call, struct ---

func (p *Parser) parseMember() ast.Expr {
	start := p.tok.Pos.Start
	left, qualified, name := p.parsePrimary()

	for {
		switch p.tok.Type {
		case DOT:
			p.advance()
			field := p.tok.Literal
			if p.tok.Type == BACKTICK_IDENT {
				p.advance()
			} else {
				field = p.expect(IDENT, "field name").Literal
			}
			if p.tok.Type == LPAREN {
				args := p.parseArgList()
				id := p.id(Position{start, p.prevEnd()})
				left = ast.NewCall(id, &left, field, args)
				qualified = false
				continue
			}
			id := p.id(Position{start, p.prevEnd()})
			left = ast.NewSelect(id, left, field, false, false)
			if qualified {
				name = name + "." + field
			}
		case QUESTION_DOT:
			p.advance()
			field := p.tok.Literal
			if p.tok.Type == BACKTICK_IDENT {
				p.advance()
			} else {
				field = p.expect(IDENT, "field name").Literal
			}
			id := p.id(Position{start, p.prevEnd()})
			left = ast.NewSelect(id, left, field, false, true)
			qualified = false
		case LBRACK:
			p.advance()
			optional := false
			if p.tok.Type == QUESTION {
				optional = true
				p.advance()
			}
			key := p.parseExpr()
			p.expect(RBRACK, "']'")
			id := p.id(Position{start, p.prevEnd()})
			op := operators.Index
			if optional {
				op = operators.OptIndex
			}
			left = ast.NewCall(id, nil, op, []ast.Expr{left, key})
			qualified = false
		case LBRACE:
			if !qualified {
				return left
			}
			left = p.parseStructBody(start, name)
			qualified = false
		default:
			return left
		}
	}
}

// parsePrimary parses a single atom and reports whether it is a bare
// qualified identifier (no call, index, or select yet applied) together
// with the dotted name accumulated so far, so the caller can recognize a
// following `{` as struct construction.
func (p *Parser) parsePrimary() (left ast.Expr, qualified bool, name string) {
	start := p.tok.Pos.Start
	switch p.tok.Type {
	case TRUE:
		p.advance()
		return ast.NewLiteral(p.id(Position{start, p.prevEnd()}), ast.Literal{Kind: ast.LitBool, Bool: true}), false, ""
	case FALSE:
		p.advance()
		return ast.NewLiteral(p.id(Position{start, p.prevEnd()}), ast.Literal{Kind: ast.LitBool, Bool: false}), false, ""
	case NULL:
		p.advance()
		return ast.NewLiteral(p.id(Position{start, p.prevEnd()}), ast.Literal{Kind: ast.LitNull}), false, ""
	case INT:
		return p.parseIntLiteral(), false, ""
	case UINT:
		return p.parseUintLiteral(), false, ""
	case DOUBLE:
		return p.parseDoubleLiteral(), false, ""
	case STRING:
		lit := p.tok.Literal
		p.advance()
		return ast.NewLiteral(p.id(Position{start, p.prevEnd()}), ast.Literal{Kind: ast.LitString, Str: lit}), false, ""
	case BYTES:
		lit := p.tok.Literal
		p.advance()
		return ast.NewLiteral(p.id(Position{start, p.prevEnd()}), ast.Literal{Kind: ast.LitBytes, Bytes: []byte(lit)}), false, ""
	case BACKTICK_IDENT:
		ident := p.tok.Literal
		p.advance()
		return ast.NewIdent(p.id(Position{start, p.prevEnd()}), ident), true, ident
	case IDENT:
		ident := p.tok.Literal
		p.advance()
		if p.tok.Type == LPAREN {
			args := p.parseArgList()
			return ast.NewCall(p.id(Position{start, p.prevEnd()}), nil, ident, args), false, ""
		}
		return ast.NewIdent(p.id(Position{start, p.prevEnd()}), ident), true, ident
	case LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(RPAREN, "')'")
		return inner, false, ""
	case LBRACK:
		return p.parseListBody(start), false, ""
	case LBRACE:
		return p.parseMapBody(start), false, ""
	default:
		p.errorf(p.tok.Pos, "unexpected token %q", p.tok.Literal)
		p.advance()
		return ast.NewLiteral(p.id(Position{start, start}), ast.Literal{Kind: ast.LitNull}), false, ""
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expect(LPAREN, "'('")
	var args []ast.Expr
	for p.tok.Type != RPAREN && p.tok.Type != EOF {
		args = append(args, p.parseExpr())
		if p.tok.Type != COMMA {
			break
		}
		p.advance()
	}
	p.expect(RPAREN, "')'")
	return args
}

func (p *Parser) parseListBody(start int) ast.Expr {
	p.advance() // consume '['
	var elems []ast.Expr
	optionals := map[int]bool{}
	idx := 0
	for p.tok.Type != RBRACK && p.tok.Type != EOF {
		if p.tok.Type == QUESTION {
			p.advance()
			optionals[idx] = true
		}
		elems = append(elems, p.parseExpr())
		idx++
		if p.tok.Type != COMMA {
			break
		}
		p.advance()
	}
	p.expect(RBRACK, "']'")
	return ast.NewList(p.id(Position{start, p.prevEnd()}), elems, optionals)
}

func (p *Parser) parseMapBody(start int) ast.Expr {
	p.advance() // consume '{'
	var entries []ast.MapEntry
	for p.tok.Type != RBRACE && p.tok.Type != EOF {
		optional := false
		if p.tok.Type == QUESTION {
			optional = true
			p.advance()
		}
		key := p.parseExpr()
		p.expect(COLON, "':'")
		value := p.parseExpr()
		entries = append(entries, ast.MapEntry{Key: key, Value: value, Optional: optional})
		if p.tok.Type != COMMA {
			break
		}
		p.advance()
	}
	p.expect(RBRACE, "'}'")
	return ast.NewMap(p.id(Position{start, p.prevEnd()}), entries)
}

func (p *Parser) parseStructBody(start int, typeName string) ast.Expr {
	p.advance() // consume '{'
	var fields []ast.StructField
	for p.tok.Type != RBRACE && p.tok.Type != EOF {
		optional := false
		if p.tok.Type == QUESTION {
			optional = true
			p.advance()
		}
		var fieldName string
		if p.tok.Type == BACKTICK_IDENT {
			fieldName = p.tok.Literal
			p.advance()
		} else {
			fieldName = p.expect(IDENT, "field name").Literal
		}
		p.expect(COLON, "':'")
		value := p.parseExpr()
		fields = append(fields, ast.StructField{Name: fieldName, Value: value, Optional: optional})
		if p.tok.Type != COMMA {
			break
		}
		p.advance()
	}
	p.expect(RBRACE, "'}'")
	return ast.NewStruct(p.id(Position{start, p.prevEnd()}), typeName, fields)
}
