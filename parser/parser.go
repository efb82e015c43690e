package parser

import (
	"fmt"
	"strconv"

	"github.com/dotfunc/c64basic/ast"
	"github.com/dotfunc/c64basic/lexer"
	"github.com/dotfunc/c64basic/token"
)

const (
	_ int = iota
	// LOWEST defines the bottom of the priority stack
	LOWEST
	LOGICOR  // OR
	LOGICAND // AND
	EQUALS   // = <> < <= > >=
	SUM      // +
	PRODUCT  // *
	POWER    // ^ (right associative)
	PREFIX   // -X or NOT X
	CALL     // CHR$(X), A(I)
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGICOR,
	token.AND:      LOGICAND,
	token.ASSIGN:   EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       EQUALS,
	token.GT:       EQUALS,
	token.GTE:      EQUALS,
	token.LTE:      EQUALS,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.CARET:    POWER,
}

// the builtin function names; a parenthesized IDENT that isn't one of
// these is an array reference
var builtinNames = map[string]bool{
	"ABS": true, "ASC": true, "ATN": true, "CHR$": true, "COS": true,
	"EXP": true, "FRE": true, "INT": true, "LEFT$": true, "LEN": true,
	"LOG": true, "MID$": true, "PEEK": true, "POS": true, "RIGHT$": true,
	"RND": true, "SGN": true, "SIN": true, "SQR": true, "STR$": true,
	"TAN": true, "VAL": true,
}

// SyntaxError rejects the whole program; the parser does not recover
type SyntaxError struct {
	Line   int
	Col    int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in line %d near column %d: %s", e.Line, e.Col, e.Reason)
}

// Parser an instance
type Parser struct {
	l   *lexer.Lexer
	err *SyntaxError

	curToken  token.Token
	peekToken token.Token
	curLine   int
}

// New create and return a Parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse normalizes the source text and builds the program in one call
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(Normalize(src)))
	return p.ParseProgram()
}

// ParseProgram builds the Abstract Syntax Tree
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	prog.New()

	for !p.curTokenIs(token.EOF) && p.err == nil {
		if p.curTokenIs(token.EOL) {
			p.nextToken()
			continue
		}

		if !p.curTokenIs(token.LINENUM) {
			p.addError("expected line number")
			break
		}

		lineNum, err := strconv.Atoi(p.curToken.Literal)
		if err != nil || lineNum < 0 || lineNum > 63999 {
			p.addError("invalid line number " + p.curToken.Literal)
			break
		}
		p.curLine = lineNum
		p.nextToken()

		stmts := p.parseLineStatements()
		if p.err != nil {
			break
		}

		if err := prog.AddLine(lineNum, stmts); err != nil {
			p.addError(err.Error())
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

// parseLineStatements collects the colon separated statements up to the
// end of the line. Consecutive colons denote empty statements.
func (p *Parser) parseLineStatements() []ast.Statement {
	stmts := []ast.Statement{}

	for p.err == nil {
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			continue
		}
		if p.atLineEnd() {
			break
		}

		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		stmts = append(stmts, stmt)

		if !p.curTokenIs(token.COLON) && !p.atLineEnd() {
			p.addError("unexpected " + string(p.curToken.Type) + " after statement")
			return nil
		}
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrintStatement()
	case token.INPUT:
		return p.parseInputStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.GOTO:
		return p.parseGotoStatement()
	case token.GOSUB:
		return p.parseGosubStatement()
	case token.RETURN:
		stmt := &ast.ReturnStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.FOR:
		return p.parseForStatement()
	case token.NEXT:
		return p.parseNextStatement()
	case token.DIM:
		return p.parseDimStatement()
	case token.DATA:
		return p.parseDataStatement()
	case token.READ:
		return p.parseReadStatement()
	case token.POKE:
		return p.parsePokeStatement()
	case token.ON:
		return p.parseOnStatement()
	case token.END:
		stmt := &ast.EndStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.STOP:
		stmt := &ast.StopStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.RUN:
		stmt := &ast.RunStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.RESTORE:
		stmt := &ast.RestoreStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.REM:
		return p.parseRemStatement()
	case token.LET:
		p.nextToken()
		return p.parseLetStatement()
	case token.IDENT:
		return p.parseLetStatement()
	}

	p.addError("unexpected " + p.curToken.Literal)
	return nil
}

func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.nextToken()

	for !p.atStatementEnd() && p.err == nil {
		switch p.curToken.Type {
		case token.SEMICOLON:
			stmt.Items = append(stmt.Items, &ast.PrintSemicolon{})
			p.nextToken()
		case token.COMMA:
			stmt.Items = append(stmt.Items, &ast.PrintComma{})
			p.nextToken()
		case token.TAB:
			p.nextToken()
			stmt.Items = append(stmt.Items, &ast.PrintTab{Exp: p.parseParenArg()})
		case token.SPC:
			p.nextToken()
			stmt.Items = append(stmt.Items, &ast.PrintSpc{Exp: p.parseParenArg()})
		default:
			stmt.Items = append(stmt.Items, &ast.PrintExpr{Exp: p.parseExpression(LOWEST)})
		}
	}
	return stmt
}

func (p *Parser) parseInputStatement() *ast.InputStatement {
	stmt := &ast.InputStatement{Token: p.curToken}
	p.nextToken()

	if p.curTokenIs(token.STRING) {
		stmt.Prompt = p.curToken.Literal
		p.nextToken()
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	for p.err == nil {
		stmt.Targets = append(stmt.Targets, p.parseLvalue())
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

// parseIfStatement - THEN is optional; the branch is either a target
// line number or the statements up to end of line
func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken, ThenLine: -1}
	p.nextToken()

	stmt.Condition = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	if p.curTokenIs(token.THEN) {
		p.nextToken()
	}

	if p.curTokenIs(token.NUMBER) {
		stmt.ThenLine = p.parseLineRef()
		return stmt
	}

	for !p.atLineEnd() && p.err == nil {
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			continue
		}
		s := p.parseStatement()
		if p.err != nil {
			return nil
		}
		stmt.Then = append(stmt.Then, s)
	}

	if len(stmt.Then) == 0 {
		p.addError("IF with no consequence")
		return nil
	}
	return stmt
}

func (p *Parser) parseGotoStatement() *ast.GotoStatement {
	stmt := &ast.GotoStatement{Token: p.curToken}
	p.nextToken()
	stmt.Line = p.parseLineRef()
	return stmt
}

func (p *Parser) parseGosubStatement() *ast.GosubStatement {
	stmt := &ast.GosubStatement{Token: p.curToken}
	p.nextToken()
	stmt.Line = p.parseLineRef()
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}
	p.nextToken()

	if !p.curTokenIs(token.IDENT) {
		p.addError("FOR needs a counter variable")
		return nil
	}
	stmt.Counter = p.curToken.Literal
	p.nextToken()

	if !p.expect(token.ASSIGN, "expected = in FOR") {
		return nil
	}
	stmt.Start = p.parseExpression(LOWEST)

	if !p.curTokenIs(token.TO) {
		p.addError("expected TO in FOR")
		return nil
	}
	p.nextToken()
	stmt.End = p.parseExpression(LOWEST)

	if p.curTokenIs(token.STEP) {
		p.nextToken()
		stmt.Step = p.parseExpression(LOWEST)
	}
	return stmt
}

func (p *Parser) parseNextStatement() *ast.NextStatement {
	stmt := &ast.NextStatement{Token: p.curToken}
	p.nextToken()

	if p.curTokenIs(token.IDENT) {
		stmt.Counter = p.curToken.Literal
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseDimStatement() *ast.DimStatement {
	stmt := &ast.DimStatement{Token: p.curToken}
	p.nextToken()

	for p.err == nil {
		if !p.curTokenIs(token.IDENT) {
			p.addError("DIM needs an array name")
			return nil
		}
		decl := &ast.DimDecl{Name: p.curToken.Literal}
		p.nextToken()

		if !p.expect(token.LPAREN, "expected ( in DIM") {
			return nil
		}
		for p.err == nil {
			decl.Dims = append(decl.Dims, p.parseExpression(LOWEST))
			if !p.curTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expect(token.RPAREN, "expected ) in DIM") {
			return nil
		}

		stmt.Decls = append(stmt.Decls, decl)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

// parseDataStatement - the lexer hands the items over as raw literals
func (p *Parser) parseDataStatement() *ast.DataStatement {
	stmt := &ast.DataStatement{Token: p.curToken}
	p.nextToken()

	for p.err == nil {
		if !p.curTokenIs(token.STRING) {
			break
		}
		stmt.Items = append(stmt.Items, p.curToken.Literal)
		p.nextToken()
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReadStatement() *ast.ReadStatement {
	stmt := &ast.ReadStatement{Token: p.curToken}
	p.nextToken()

	for p.err == nil {
		stmt.Targets = append(stmt.Targets, p.parseLvalue())
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parsePokeStatement() *ast.PokeStatement {
	stmt := &ast.PokeStatement{Token: p.curToken}
	p.nextToken()

	stmt.Addr = p.parseExpression(LOWEST)
	if !p.expect(token.COMMA, "expected , in POKE") {
		return nil
	}
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseOnStatement() *ast.OnStatement {
	stmt := &ast.OnStatement{Token: p.curToken}
	p.nextToken()

	stmt.Selector = p.parseExpression(LOWEST)

	switch p.curToken.Type {
	case token.GOTO:
	case token.GOSUB:
		stmt.IsGosub = true
	default:
		p.addError("expected GOTO or GOSUB in ON")
		return nil
	}
	p.nextToken()

	for p.err == nil {
		stmt.Lines = append(stmt.Lines, p.parseLineRef())
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseRemStatement() *ast.RemStatement {
	stmt := &ast.RemStatement{Token: p.curToken}
	p.nextToken()

	// the lexer delivers the comment tail as one literal
	if p.curTokenIs(token.STRING) {
		stmt.Comment = p.curToken.Literal
		p.nextToken()
	}
	return stmt
}

// parseLetStatement handles both the explicit LET and the implied form
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}

	stmt.Target = p.parseLvalue()
	if p.err != nil {
		return nil
	}

	if !p.expect(token.ASSIGN, "expected = in assignment") {
		return nil
	}

	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

// parseLvalue - a bare name or a subscripted array element
func (p *Parser) parseLvalue() ast.Expression {
	if !p.curTokenIs(token.IDENT) {
		p.addError("expected variable, got " + p.curToken.Literal)
		return nil
	}

	name := p.curToken.Literal
	tok := p.curToken
	p.nextToken()

	if !p.curTokenIs(token.LPAREN) {
		return &ast.Identifier{Token: tok, Value: name}
	}

	p.nextToken()
	ref := &ast.ArrayRef{Token: tok, Name: name}
	for p.err == nil {
		ref.Index = append(ref.Index, p.parseExpression(LOWEST))
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expect(token.RPAREN, "expected ) after subscripts") {
		return nil
	}
	return ref
}

// expression parsing, precedence climbing

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if p.err != nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		left = p.parseInfix(left)
		if p.err != nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		lit := &ast.NumberLiteral{Token: p.curToken}
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError("invalid number " + p.curToken.Literal)
			return nil
		}
		lit.Value = v
		p.nextToken()
		return lit

	case token.STRING:
		lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		return lit

	case token.MINUS:
		exp := &ast.PrefixExpression{Token: p.curToken, Operator: "-"}
		p.nextToken()
		exp.Right = p.parseUnaryOperand()
		return exp

	case token.NOT:
		exp := &ast.PrefixExpression{Token: p.curToken, Operator: "NOT"}
		p.nextToken()
		exp.Right = p.parseUnaryOperand()
		return exp

	case token.LPAREN:
		ge := &ast.GroupedExpression{Token: p.curToken}
		p.nextToken()
		ge.Exp = p.parseExpression(LOWEST)
		if !p.expect(token.RPAREN, "expected )") {
			return nil
		}
		return ge

	case token.IDENT:
		return p.parseIdentExpression()
	}

	p.addError("unexpected " + p.curToken.Literal + " in expression")
	return nil
}

// unary minus and NOT bind tighter than any infix operator
func (p *Parser) parseUnaryOperand() ast.Expression {
	return p.parseExpression(PREFIX)
}

func (p *Parser) parseIdentExpression() ast.Expression {
	name := p.curToken.Literal
	tok := p.curToken
	p.nextToken()

	if !p.curTokenIs(token.LPAREN) {
		return &ast.Identifier{Token: tok, Value: name}
	}

	p.nextToken()
	args := []ast.Expression{}
	for !p.curTokenIs(token.RPAREN) && p.err == nil {
		args = append(args, p.parseExpression(LOWEST))
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expect(token.RPAREN, "expected ) after arguments") {
		return nil
	}

	if builtinNames[name] {
		return &ast.CallExpression{Token: tok, Fn: name, Args: args}
	}
	return &ast.ArrayRef{Token: tok, Name: name, Index: args}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	exp := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	prec := p.curPrecedence()
	if p.curTokenIs(token.CARET) {
		// right associative
		prec--
	}
	p.nextToken()
	exp.Right = p.parseExpression(prec)
	return exp
}

// small helpers

func (p *Parser) parseParenArg() ast.Expression {
	if !p.expect(token.LPAREN, "expected (") {
		return nil
	}
	exp := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN, "expected )") {
		return nil
	}
	return exp
}

func (p *Parser) parseLineRef() int {
	if !p.curTokenIs(token.NUMBER) {
		p.addError("expected line number target")
		return 0
	}
	n, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.addError("invalid line number target " + p.curToken.Literal)
		return 0
	}
	p.nextToken()
	return n
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) expect(t token.TokenType, reason string) bool {
	if !p.curTokenIs(t) {
		p.addError(reason)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) atLineEnd() bool {
	return p.curTokenIs(token.EOL) || p.curTokenIs(token.EOF)
}

func (p *Parser) atStatementEnd() bool {
	return p.atLineEnd() || p.curTokenIs(token.COLON)
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(reason string) {
	if p.err == nil {
		p.err = &SyntaxError{Line: p.curLine, Col: p.l.Col(), Reason: reason}
	}
}
