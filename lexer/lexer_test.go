package lexer

import (
	"testing"

	"github.com/dotfunc/c64basic/token"
)

func TestNextToken(t *testing.T) {
	input := `10 PRINT "HELLO", A$;TAB(5)
20 FOR I=1 TO 3 STEP .5:NEXT I
30 IF X<>5 THEN 10
40 A(3)=A(3)+N%^2`

	tests := []struct {
		expType    token.TokenType
		expLiteral string
	}{
		{token.LINENUM, "10"},
		{token.PRINT, "PRINT"},
		{token.STRING, "HELLO"},
		{token.COMMA, ","},
		{token.IDENT, "A$"},
		{token.SEMICOLON, ";"},
		{token.TAB, "TAB"},
		{token.LPAREN, "("},
		{token.NUMBER, "5"},
		{token.RPAREN, ")"},
		{token.EOL, "\n"},
		{token.LINENUM, "20"},
		{token.FOR, "FOR"},
		{token.IDENT, "I"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.TO, "TO"},
		{token.NUMBER, "3"},
		{token.STEP, "STEP"},
		{token.NUMBER, ".5"},
		{token.COLON, ":"},
		{token.NEXT, "NEXT"},
		{token.IDENT, "I"},
		{token.EOL, "\n"},
		{token.LINENUM, "30"},
		{token.IF, "IF"},
		{token.IDENT, "X"},
		{token.NOT_EQ, "<>"},
		{token.NUMBER, "5"},
		{token.THEN, "THEN"},
		{token.NUMBER, "10"},
		{token.EOL, "\n"},
		{token.LINENUM, "40"},
		{token.IDENT, "A"},
		{token.LPAREN, "("},
		{token.NUMBER, "3"},
		{token.RPAREN, ")"},
		{token.ASSIGN, "="},
		{token.IDENT, "A"},
		{token.LPAREN, "("},
		{token.NUMBER, "3"},
		{token.RPAREN, ")"},
		{token.PLUS, "+"},
		{token.IDENT, "N%"},
		{token.CARET, "^"},
		{token.NUMBER, "2"},
		{token.EOF, token.EOF},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expType {
			t.Fatalf("tests[%d] - wrong token type. expected=%q, got=%q (%q)", i, tt.expType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q", i, tt.expLiteral, tok.Literal)
		}
	}
}

func TestRemTail(t *testing.T) {
	l := New("10 REM SETUP ** FIELD: A,B\n20 END")

	seq := []struct {
		expType    token.TokenType
		expLiteral string
	}{
		{token.LINENUM, "10"},
		{token.REM, "REM"},
		{token.STRING, " SETUP ** FIELD: A,B"},
		{token.EOL, "\n"},
		{token.LINENUM, "20"},
		{token.END, "END"},
		{token.EOF, token.EOF},
	}

	for i, tt := range seq {
		tok := l.NextToken()
		if tok.Type != tt.expType || tok.Literal != tt.expLiteral {
			t.Fatalf("seq[%d] - got (%q,%q), expected (%q,%q)", i, tok.Type, tok.Literal, tt.expType, tt.expLiteral)
		}
	}
}

func TestDataItems(t *testing.T) {
	l := New(`10 DATA 7, TORINO , "A,B":PRINT`)

	seq := []struct {
		expType    token.TokenType
		expLiteral string
	}{
		{token.LINENUM, "10"},
		{token.DATA, "DATA"},
		{token.STRING, "7"},
		{token.COMMA, ","},
		{token.STRING, "TORINO"},
		{token.COMMA, ","},
		{token.STRING, "A,B"},
		{token.COLON, ":"},
		{token.PRINT, "PRINT"},
		{token.EOF, token.EOF},
	}

	for i, tt := range seq {
		tok := l.NextToken()
		if tok.Type != tt.expType || tok.Literal != tt.expLiteral {
			t.Fatalf("seq[%d] - got (%q,%q), expected (%q,%q)", i, tok.Type, tok.Literal, tt.expType, tt.expLiteral)
		}
	}
}
