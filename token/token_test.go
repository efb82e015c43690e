package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		exp   TokenType
	}{
		{ident: "PRINT", exp: PRINT},
		{ident: "print", exp: PRINT},
		{ident: "GOSUB", exp: GOSUB},
		{ident: "RESTORE", exp: RESTORE},
		{ident: "TAB", exp: TAB},
		{ident: "PZ", exp: IDENT},
		{ident: "RIG$", exp: IDENT},
		{ident: "FORAPE", exp: IDENT},
	}

	for _, tt := range tests {
		if got := LookupIdent(tt.ident); got != tt.exp {
			t.Errorf("LookupIdent(%q) returned %s, expecting %s", tt.ident, got, tt.exp)
		}
	}
}
