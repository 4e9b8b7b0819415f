package parser

import (
	"strconv"
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
)

// parseIntLiteral parses an INT token. A trailing u/U (already recognized
// by the lexer as a UINT token) is handled separately; this path parses
// the int case, but a literal that overflows int64 while still fitting
// uint64 is reinterpreted as unsigned per spec §4.1.
func (p *Parser) parseIntLiteral() ast.Expr {
	start := p.tok.Pos.Start
	lit := p.tok.Literal
	p.advance()
	id := p.id(Position{start, p.prevEnd()})

	text, base := stripRadix(lit)
	if v, err := strconv.ParseInt(text, base, 64); err == nil {
		return ast.NewLiteral(id, ast.Literal{Kind: ast.LitInt, Int: v})
	}
	if v, err := strconv.ParseUint(text, base, 64); err == nil {
		return ast.NewLiteral(id, ast.Literal{Kind: ast.LitUint, Uint: v})
	}
	p.errorf(Position{start, p.prevEnd()}, "invalid integer literal %q", lit)
	return ast.NewLiteral(id, ast.Literal{Kind: ast.LitInt, Int: 0})
}

func (p *Parser) parseUintLiteral() ast.Expr {
	start := p.tok.Pos.Start
	lit := strings.TrimSuffix(strings.TrimSuffix(p.tok.Literal, "u"), "U")
	p.advance()
	id := p.id(Position{start, p.prevEnd()})

	text, base := stripRadix(lit)
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		p.errorf(Position{start, p.prevEnd()}, "invalid unsigned integer literal %q", lit)
		return ast.NewLiteral(id, ast.Literal{Kind: ast.LitUint, Uint: 0})
	}
	return ast.NewLiteral(id, ast.Literal{Kind: ast.LitUint, Uint: v})
}

func (p *Parser) parseDoubleLiteral() ast.Expr {
	start := p.tok.Pos.Start
	lit := p.tok.Literal
	p.advance()
	id := p.id(Position{start, p.prevEnd()})

	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errorf(Position{start, p.prevEnd()}, "invalid double literal %q", lit)
		return ast.NewLiteral(id, ast.Literal{Kind: ast.LitDouble, Double: 0})
	}
	return ast.NewLiteral(id, ast.Literal{Kind: ast.LitDouble, Double: v})
}

// stripRadix strips a 0x/0X prefix, returning the digits and the base
// strconv should parse them with.
func stripRadix(lit string) (string, int) {
	if len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		return lit[2:], 16
	}
	return lit, 10
}
