// Package evaluator walks the parsed program one statement at a time,
// driving the screen and the runtime stacks.
package evaluator

import (
	"math"
	"strings"

	"github.com/dotfunc/c64basic/ast"
	"github.com/dotfunc/c64basic/berrors"
	"github.com/dotfunc/c64basic/object"
	"github.com/dotfunc/c64basic/trace"
)

const (
	gosubDepthLimit = 256
	forDepthLimit   = 64
)

// Interpreter owns the execution pointer over one loaded program
type Interpreter struct {
	env    *object.Environment
	code   *ast.Code
	halted bool
}

// New readies an interpreter; the environment must already hold the
// parsed program
func New(env *object.Environment) *Interpreter {
	return &Interpreter{
		env:  env,
		code: env.Program().StatementIter(),
	}
}

// Halted reports whether the run is over
func (ip *Interpreter) Halted() bool {
	return ip.halted
}

// Step executes exactly one statement. It returns false once the
// program has ended, was cancelled, or raised an error.
func (ip *Interpreter) Step() (bool, error) {
	if ip.halted {
		return false, nil
	}
	if ip.env.StopRequested() {
		ip.halted = true
		return false, nil
	}

	stmt := ip.code.Value()
	if stmt == nil {
		ip.halted = true
		return false, nil
	}

	line := ip.code.CurLine()
	trace.Step(line, stmt.TokenLiteral())

	halt, errObj := execStatement(stmt, ip.code, ip.env)
	if errObj != nil {
		ip.halted = true
		err := &berrors.RuntimeError{Code: errObj.Code, Line: line}
		trace.RunError(err)
		return false, err
	}
	if halt {
		ip.halted = true
		return false, nil
	}

	if ip.code.TookJump() {
		ip.code.ClearJump()
	} else if !ip.code.Next() {
		ip.halted = true
		return false, nil
	}
	return true, nil
}

// Run steps the program to completion; used headless and in tests
func (ip *Interpreter) Run() error {
	for {
		more, err := ip.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// execStatement runs one statement; halt reports END/STOP/cancel
func execStatement(stmt ast.Statement, code *ast.Code, env *object.Environment) (bool, *object.Error) {
	switch stmt := stmt.(type) {
	case *ast.PrintStatement:
		return false, execPrint(stmt, env)
	case *ast.InputStatement:
		return execInput(stmt, env)
	case *ast.LetStatement:
		return false, execLet(stmt, env)
	case *ast.IfStatement:
		return execIf(stmt, code, env)
	case *ast.GotoStatement:
		return false, execJump(stmt.Line, code)
	case *ast.GosubStatement:
		return false, execGosub(stmt.Line, code, env)
	case *ast.ReturnStatement:
		return false, execReturn(code, env)
	case *ast.ForStatement:
		return false, execFor(stmt, code, env)
	case *ast.NextStatement:
		return false, execNext(stmt, code, env)
	case *ast.DimStatement:
		return false, execDim(stmt, env)
	case *ast.DataStatement:
		return false, nil // consumed through the DATA cursor
	case *ast.ReadStatement:
		return false, execRead(stmt, env)
	case *ast.PokeStatement:
		return false, execPoke(stmt, env)
	case *ast.OnStatement:
		return false, execOn(stmt, code, env)
	case *ast.RestoreStatement:
		env.Data().Restore()
		return false, nil
	case *ast.RunStatement:
		env.ClearVars()
		env.Data().Restore()
		code.Rewind()
		return false, nil
	case *ast.EndStatement:
		return true, nil
	case *ast.StopStatement:
		return true, nil
	case *ast.RemStatement:
		return false, nil
	}

	return false, newError(berrors.Syntax)
}

func execPrint(stmt *ast.PrintStatement, env *object.Environment) *object.Error {
	term := env.Terminal()

	for _, item := range stmt.Items {
		switch item := item.(type) {
		case *ast.PrintExpr:
			val := evalExpression(item.Exp, env)
			if errObj, ok := val.(*object.Error); ok {
				return errObj
			}
			term.Print(val.Inspect())
			// numbers carry a trailing space on top of the sign column
			if val.Type() == object.NUMBER_OBJ {
				term.Print(" ")
			}

		case *ast.PrintComma:
			zone := (term.Col()/10 + 1) * 10
			if zone >= 40 {
				term.Newline()
			} else {
				term.Tab(zone)
			}

		case *ast.PrintSemicolon:
			// items just abut

		case *ast.PrintTab:
			n, errObj := evalInt(item.Exp, env)
			if errObj != nil {
				return errObj
			}
			term.Tab(n)

		case *ast.PrintSpc:
			n, errObj := evalInt(item.Exp, env)
			if errObj != nil {
				return errObj
			}
			term.Spc(n)
		}
	}

	if !suppressesNewline(stmt) {
		term.Newline()
	}
	return nil
}

// a trailing comma or semicolon keeps the cursor on the open line
func suppressesNewline(stmt *ast.PrintStatement) bool {
	if len(stmt.Items) == 0 {
		return false
	}
	switch stmt.Items[len(stmt.Items)-1].(type) {
	case *ast.PrintComma, *ast.PrintSemicolon:
		return true
	}
	return false
}

func execInput(stmt *ast.InputStatement, env *object.Environment) (bool, *object.Error) {
	term := env.Terminal()

	if stmt.Prompt != "" {
		term.Print(stmt.Prompt)
	}

	for {
		term.Print("? ")

		line, ok := term.ReadLine()
		if !ok {
			// cancelled from the front-end
			return true, nil
		}
		if env.StopRequested() {
			return true, nil
		}

		vals, ok := convertInput(line, stmt.Targets)
		if !ok {
			continue
		}

		for i, target := range stmt.Targets {
			if errObj := assign(target, vals[i], env); errObj != nil {
				return false, errObj
			}
		}
		return false, nil
	}
}

// convertInput splits an input line on commas and coerces each field to
// its target's type. False asks the caller to re-prompt.
func convertInput(line string, targets []ast.Expression) ([]object.Object, bool) {
	parts := strings.Split(line, ",")

	vals := make([]object.Object, len(targets))
	for i, target := range targets {
		raw := ""
		if i < len(parts) {
			raw = strings.TrimSpace(parts[i])
		}

		if object.IsStringName(lvalueName(target)) {
			vals[i] = &object.String{Value: raw}
			continue
		}

		n, ok := parseNumeric(raw)
		if !ok {
			return nil, false
		}
		vals[i] = &object.Number{Value: n}
	}
	return vals, true
}

// parseNumeric accepts an optional sign, digits, and an optional
// fractional part; anything else is a re-prompt
func parseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 || i != len(s) {
		return 0, false
	}

	v, err := strconvParse(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func execLet(stmt *ast.LetStatement, env *object.Environment) *object.Error {
	val := evalExpression(stmt.Value, env)
	if errObj, ok := val.(*object.Error); ok {
		return errObj
	}
	return assign(stmt.Target, val, env)
}

func execIf(stmt *ast.IfStatement, code *ast.Code, env *object.Environment) (bool, *object.Error) {
	cond := evalExpression(stmt.Condition, env)
	if errObj, ok := cond.(*object.Error); ok {
		return false, errObj
	}

	if !isTruthy(cond) {
		// a false IF skips the remainder of the line
		code.NextLine()
		return false, nil
	}

	if stmt.ThenLine >= 0 {
		return false, execJump(stmt.ThenLine, code)
	}

	for _, s := range stmt.Then {
		halt, errObj := execStatement(s, code, env)
		if halt || errObj != nil {
			return halt, errObj
		}
		if code.TookJump() {
			break
		}
	}
	return false, nil
}

func execJump(line int, code *ast.Code) *object.Error {
	from := code.CurLine()
	if !code.Jump(line) {
		return newError(berrors.UndefinedLine)
	}
	trace.Jump(from, line)
	return nil
}

func execGosub(line int, code *ast.Code, env *object.Environment) *object.Error {
	if env.Push(code.Pos()) > gosubDepthLimit {
		return newError(berrors.StackOverflow)
	}
	return execJump(line, code)
}

func execReturn(code *ast.Code, env *object.Environment) *object.Error {
	ret := env.Pop()
	if ret == nil {
		return newError(berrors.ReturnWithoutGosub)
	}

	// land on the GOSUB itself; the step loop advances past it
	code.JumpPos(*ret)
	return nil
}

func execFor(stmt *ast.ForStatement, code *ast.Code, env *object.Environment) *object.Error {
	start, errObj := evalNumber(stmt.Start, env)
	if errObj != nil {
		return errObj
	}
	end, errObj := evalNumber(stmt.End, env)
	if errObj != nil {
		return errObj
	}

	step := 1.0
	if stmt.Step != nil {
		if step, errObj = evalNumber(stmt.Step, env); errObj != nil {
			return errObj
		}
	}

	counter := object.CanonicalName(stmt.Counter)
	env.Set(counter, &object.Number{Value: start})

	// restarting a live counter discards the stale frame
	if fb := env.FindFor(counter); fb != nil && fb.Counter == counter {
		env.PopFor()
	}

	if env.PushFor(object.ForBlock{
		Counter: counter,
		Limit:   end,
		Step:    step,
		Resume:  code.Pos(),
	}) > forDepthLimit {
		return newError(berrors.StackOverflow)
	}
	return nil
}

// execNext - the body always ran at least once; the termination test
// lives here, not at FOR
func execNext(stmt *ast.NextStatement, code *ast.Code, env *object.Environment) *object.Error {
	fb := env.FindFor(stmt.Counter)
	if fb == nil {
		return newError(berrors.NextWithoutFor)
	}

	cur, errObj := evalNumber(&ast.Identifier{Value: fb.Counter}, env)
	if errObj != nil {
		return errObj
	}

	next := cur + fb.Step
	done := next > fb.Limit
	if fb.Step < 0 {
		done = next < fb.Limit
	}

	env.Set(fb.Counter, &object.Number{Value: next})

	if done {
		env.PopFor()
		return nil
	}

	code.JumpPos(fb.Resume)
	return nil
}

func execDim(stmt *ast.DimStatement, env *object.Environment) *object.Error {
	for _, decl := range stmt.Decls {
		dims := make([]int, len(decl.Dims))
		for i, exp := range decl.Dims {
			d, errObj := evalInt(exp, env)
			if errObj != nil {
				return errObj
			}
			if d < 0 {
				return newError(berrors.IllegalQuantity)
			}
			dims[i] = d
		}

		if !env.DimArray(decl.Name, dims) {
			return newError(berrors.RedimensionedArray)
		}
	}
	return nil
}

func execRead(stmt *ast.ReadStatement, env *object.Environment) *object.Error {
	for _, target := range stmt.Targets {
		item, ok := env.Data().Next()
		if !ok {
			return newError(berrors.OutOfData)
		}

		var val object.Object
		if object.IsStringName(lvalueName(target)) {
			val = &object.String{Value: item}
		} else {
			n, _ := strconvParse(strings.TrimSpace(item))
			val = &object.Number{Value: n}
		}

		if errObj := assign(target, val, env); errObj != nil {
			return errObj
		}
	}
	return nil
}

// execPoke - the color registers reach the screen, everything else
// lands in the side table for PEEK
func execPoke(stmt *ast.PokeStatement, env *object.Environment) *object.Error {
	addr, errObj := evalInt(stmt.Addr, env)
	if errObj != nil {
		return errObj
	}
	v, errObj := evalInt(stmt.Value, env)
	if errObj != nil {
		return errObj
	}
	val := uint8(((v % 256) + 256) % 256)

	env.Poke(addr, val)

	switch addr {
	case 53280:
		env.Terminal().PokeColor("border", val)
	case 53281:
		env.Terminal().PokeColor("background", val)
	case 646:
		env.Terminal().PokeColor("text", val)
	}
	return nil
}

func execOn(stmt *ast.OnStatement, code *ast.Code, env *object.Environment) *object.Error {
	n, errObj := evalInt(stmt.Selector, env)
	if errObj != nil {
		return errObj
	}
	if n < 0 {
		return newError(berrors.IllegalQuantity)
	}
	if n == 0 || n > len(stmt.Lines) {
		// falls through to the next statement
		return nil
	}

	target := stmt.Lines[n-1]
	if stmt.IsGosub {
		return execGosub(target, code, env)
	}
	return execJump(target, code)
}

// assignment plumbing shared by LET, READ and INPUT

func assign(target ast.Expression, val object.Object, env *object.Environment) *object.Error {
	name := lvalueName(target)

	if errObj := checkAssignType(name, val); errObj != nil {
		return errObj
	}
	val = coerceInteger(name, val)

	switch target := target.(type) {
	case *ast.Identifier:
		env.Set(name, val)
		return nil
	case *ast.ArrayRef:
		arr, off, errObj := arrayElem(target, env)
		if errObj != nil {
			return errObj
		}
		arr.Elements[off] = val
		return nil
	}
	return newError(berrors.Syntax)
}

func lvalueName(target ast.Expression) string {
	switch target := target.(type) {
	case *ast.Identifier:
		return object.CanonicalName(target.Value)
	case *ast.ArrayRef:
		return object.CanonicalName(target.Name)
	}
	return ""
}

func checkAssignType(name string, val object.Object) *object.Error {
	isStr := val.Type() == object.STRING_OBJ
	if object.IsStringName(name) != isStr {
		return newError(berrors.TypeMismatch)
	}
	return nil
}

// a % suffix keeps only the integer part
func coerceInteger(name string, val object.Object) object.Object {
	if !strings.HasSuffix(name, "%") {
		return val
	}
	if n, ok := val.(*object.Number); ok {
		return &object.Number{Value: math.Floor(n.Value)}
	}
	return val
}

// arrayElem resolves a subscripted reference, creating the array with
// bounds of 10 on first touch of an undeclared name
func arrayElem(ref *ast.ArrayRef, env *object.Environment) (*object.Array, int, *object.Error) {
	idx := make([]int, len(ref.Index))
	for i, exp := range ref.Index {
		n, errObj := evalInt(exp, env)
		if errObj != nil {
			return nil, 0, errObj
		}
		idx[i] = n
	}

	arr := env.GetArray(ref.Name)
	if arr == nil {
		dims := make([]int, len(idx))
		for i := range dims {
			dims[i] = 10
		}
		env.DimArray(ref.Name, dims)
		arr = env.GetArray(ref.Name)
	}

	off, ok := arr.Offset(idx)
	if !ok {
		return nil, 0, newError(berrors.SubscriptRange)
	}
	return arr, off, nil
}

func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Number:
		return obj.Value != 0
	case *object.String:
		return obj.Value != ""
	}
	return false
}

func newError(code int) *object.Error {
	return &object.Error{Message: berrors.TextForError(code), Code: code}
}
