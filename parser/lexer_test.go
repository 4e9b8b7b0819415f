package parser

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `x + 1 - 2 * 3 / 4 % 5 == 6 != 7 < 8 <= 9 > 10 >= 11 && true || false ! -x ? : . ?. in`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"}, {PLUS, "+"}, {INT, "1"}, {MINUS, "-"}, {INT, "2"},
		{STAR, "*"}, {INT, "3"}, {SLASH, "/"}, {INT, "4"}, {PERCENT, "%"}, {INT, "5"},
		{EQ, "=="}, {INT, "6"}, {NE, "!="}, {INT, "7"}, {LT, "<"}, {INT, "8"},
		{LE, "<="}, {INT, "9"}, {GT, ">"}, {INT, "10"}, {GE, ">="}, {INT, "11"},
		{AND, "&&"}, {TRUE, "true"}, {OR, "||"}, {FALSE, "false"},
		{BANG, "!"}, {MINUS, "-"}, {IDENT, "x"}, {QUESTION, "?"}, {COLON, ":"},
		{DOT, "."}, {QUESTION_DOT, "?."}, {IN, "in"}, {EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] type: expected=%d got=%d (literal=%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] literal: expected=%q got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenIntUintDouble(t *testing.T) {
	input := `123 123u 0xFF 0xFFu 1.5 1.5e10 1e-3`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{INT, "123"}, {UINT, "123u"}, {INT, "0xFF"}, {UINT, "0xFFu"},
		{DOUBLE, "1.5"}, {DOUBLE, "1.5e10"}, {DOUBLE, "1e-3"}, {EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d]: expected=(%d,%q) got=(%d,%q)", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"\x41"`, "A"},
		{`"A"`, "A"},
		{`"\101"`, "A"},
	}
	for _, tt := range tests {
		l := NewLexer(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("input %q: expected STRING got %d", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Fatalf("input %q: expected %q, got %q", tt.input, tt.want, tok.Literal)
		}
	}
}

func TestRawStringSkipsEscapes(t *testing.T) {
	l := NewLexer(`r"a\nb"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %d", tok.Type)
	}
	if tok.Literal != `a\nb` {
		t.Fatalf("expected raw literal %q, got %q", `a\nb`, tok.Literal)
	}
}

func TestBytesLiteral(t *testing.T) {
	l := NewLexer(`b"abc"`)
	tok := l.NextToken()
	if tok.Type != BYTES {
		t.Fatalf("expected BYTES, got %d", tok.Type)
	}
	if tok.Literal != "abc" {
		t.Fatalf("expected %q, got %q", "abc", tok.Literal)
	}
}

func TestBacktickIdent(t *testing.T) {
	l := NewLexer("`in`")
	tok := l.NextToken()
	if tok.Type != BACKTICK_IDENT || tok.Literal != "in" {
		t.Fatalf("expected BACKTICK_IDENT(in), got %d(%q)", tok.Type, tok.Literal)
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := NewLexer(`"abc`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error for unterminated string")
	}
}
