package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatementKeywords(t *testing.T) {
	tests := []struct {
		in  string
		exp string
	}{
		{in: "10 IFI=5THENPRINT\"OK\"", exp: "10 IF I=5 THEN PRINT\"OK\""},
		{in: "20 PRINTCHR$(142)", exp: "20 PRINT CHR$(142)"},
		{in: "30 GOSUB2000", exp: "30 GOSUB 2000"},
		{in: "40 IFC(UZ)=0THENPRINTRIG$", exp: "40 IF C(UZ)=0 THEN PRINT RIG$"},
		{in: "50 NEXTI", exp: "50 NEXT I"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exp, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeLogicalOperators(t *testing.T) {
	// embedded between letters: operator
	assert.Equal(t, "10 X=HZ OR QZ", Normalize("10 X=HZORQZ"))
	assert.Equal(t, "10 X=HZ AND QZ", Normalize("10 X=HZANDQZ"))

	// boundary on the left, identifier on the right: operator
	// THEN stays glued to the closing quote; the lexer splits it
	got := Normalize(`30 IF A$<>"N"ANDA$<>"S"THEN 10`)
	assert.Equal(t, `30 IF A$<>"N" AND A$<>"S"THEN 10`, got)
}

func TestNormalizeLeavesStringsAlone(t *testing.T) {
	// Italian words full of keyword substrings stay intact in quotes
	got := Normalize(`10 PRINT"ANCORA UN GIOCATORE"`)
	assert.Equal(t, `10 PRINT"ANCORA UN GIOCATORE"`, got)

	got = Normalize(`20 A$="[BORDERS]"`)
	assert.Equal(t, `20 A$="[BORDERS]"`, got)
}

func TestNormalizeRemTailUntouched(t *testing.T) {
	got := Normalize("10 REM FOR THE RECORD")
	assert.Equal(t, "10 REM FOR THE RECORD", got)
}

func TestNormalizeDataTailUntouched(t *testing.T) {
	// unquoted DATA items are literal; TORINO must not grow an OR
	got := Normalize("10 DATA TORINO,MONZA:PRINTX")
	assert.Equal(t, "10 DATA TORINO,MONZA:PRINT X", got)
}

func TestNormalizeContextualTo(t *testing.T) {
	got := Normalize("20 FORPZ=HZTOHZ+15:NEXT")
	assert.Equal(t, "20 FOR PZ=HZ TO HZ+15:NEXT", got)

	// TO outside a FOR header is left for the identifier it is part of
	got = Normalize("30 X=TOT")
	assert.Equal(t, "30 X=TOT", got)
}

func TestNormalizeLowercaseInput(t *testing.T) {
	got := Normalize(`10 print"Ciao":goto20`)
	assert.Equal(t, `10 PRINT"Ciao":GOTO 20`, got)
}

func TestNormalizeLeadingDotNumbers(t *testing.T) {
	got := Normalize("50 IFRND(1)>.5THENA(PZ)=A(PZ)+1")
	assert.Equal(t, "50 IF RND(1)>.5 THEN A(PZ)=A(PZ)+1", got)
}
