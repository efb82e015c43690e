package object

import (
	"math/rand"
	"strings"
	"sync/atomic"

	"github.com/dotfunc/c64basic/ast"
)

// Console defines how the interpreter collects input and displays output.
// The screen package provides the real one; tests substitute mocks.
type Console interface {
	// Print writes text at the cursor, expanding placeholders and
	// wrapping/scrolling as needed
	Print(string)
	// Println prints the string followed by a newline
	Println(string)
	// Newline moves the cursor to column 0 of the next row
	Newline()
	// Cls clears the screen contents
	Cls()
	// Tab pads with spaces up to the requested column, never backward
	Tab(int)
	// Spc emits n spaces
	Spc(int)
	// Col reports the current cursor column
	Col() int
	// PokeColor routes the color POKE targets (border/background/text)
	PokeColor(target string, value uint8)
	// ReadLine blocks until the frontend delivers an input line;
	// false means the run was cancelled
	ReadLine() (string, bool)
}

// ForBlock is one live FOR frame
type ForBlock struct {
	Counter string
	Limit   float64
	Step    float64
	Resume  ast.RetPoint
}

// Environment holds variables, arrays and the runtime stacks
type Environment struct {
	store    map[string]Object    // scalar variables
	arrays   map[string]*Array    // arrays live in their own name-space
	stack    []ast.RetPoint       // return addresses for GOSUB/RETURN
	forLoops []ForBlock           // active FOR frames, innermost last
	pokes    map[int]uint8        // POKEd addresses, recorded for PEEK
	data     *ast.ConstData       // the global DATA cursor
	program  *ast.Program         // current program
	term     Console              // the console front-end
	rnd      *rand.Rand           // random number generator
	rndVal   float64              // most recent generated value
	stopped  atomic.Bool          // frontend requested cancellation
}

// NewEnvironment creates a place to store variables
func NewEnvironment() *Environment {
	e := &Environment{
		store:  make(map[string]Object),
		arrays: make(map[string]*Array),
		pokes:  make(map[int]uint8),
	}
	e.Randomize(37)
	return e
}

// NewTermEnvironment creates an environment with a console front-end
func NewTermEnvironment(term Console) *Environment {
	env := NewEnvironment()
	env.term = term
	return env
}

// CanonicalName upper-cases a variable name; the trailing $ or % type
// suffix travels with it
func CanonicalName(name string) string {
	return strings.ToUpper(name)
}

// Get retrieves a scalar; undefined names yield the type default
func (e *Environment) Get(name string) Object {
	name = CanonicalName(name)
	if v, ok := e.store[name]; ok {
		return v
	}
	return DefaultFor(name)
}

// Set stores a scalar value
func (e *Environment) Set(name string, val Object) {
	e.store[CanonicalName(name)] = val
}

// GetArray looks up an array by canonical name, nil if never dimensioned
func (e *Environment) GetArray(name string) *Array {
	return e.arrays[CanonicalName(name)]
}

// DimArray creates an array; false if the name is already dimensioned
func (e *Environment) DimArray(name string, dims []int) bool {
	name = CanonicalName(name)
	if _, ok := e.arrays[name]; ok {
		return false
	}
	e.arrays[name] = NewArray(name, dims)
	return true
}

// Push a GOSUB return address, returns resulting stack depth
func (e *Environment) Push(ret ast.RetPoint) int {
	e.stack = append(e.stack, ret)
	return len(e.stack)
}

// Pop a return address, nil means the stack is empty
func (e *Environment) Pop() *ast.RetPoint {
	l := len(e.stack)
	if l == 0 {
		return nil
	}

	ret := e.stack[l-1]
	e.stack = e.stack[:l-1]

	return &ret
}

// PushFor adds a FOR frame, returns resulting depth
func (e *Environment) PushFor(fb ForBlock) int {
	e.forLoops = append(e.forLoops, fb)
	return len(e.forLoops)
}

// FindFor locates the innermost frame for the counter (any frame when
// the counter is empty) and discards frames nested inside it. Returns
// nil when no frame matches.
func (e *Environment) FindFor(counter string) *ForBlock {
	if len(e.forLoops) == 0 {
		return nil
	}

	if counter == "" {
		return &e.forLoops[len(e.forLoops)-1]
	}

	counter = CanonicalName(counter)
	for i := len(e.forLoops) - 1; i >= 0; i-- {
		if e.forLoops[i].Counter == counter {
			e.forLoops = e.forLoops[:i+1]
			return &e.forLoops[i]
		}
	}
	return nil
}

// PopFor removes the innermost FOR frame
func (e *Environment) PopFor() {
	if len(e.forLoops) > 0 {
		e.forLoops = e.forLoops[:len(e.forLoops)-1]
	}
}

// ForDepth reports how many FOR frames are live
func (e *Environment) ForDepth() int {
	return len(e.forLoops)
}

// ClearVars drops every variable, array and stack frame; RUN uses this
func (e *Environment) ClearVars() {
	e.store = make(map[string]Object)
	e.arrays = make(map[string]*Array)
	e.stack = nil
	e.forLoops = nil
}

// Poke records a byte in the side table
func (e *Environment) Poke(addr int, val uint8) {
	e.pokes[addr] = val
}

// Peek returns the last value POKEd at the address, zero if none
func (e *Environment) Peek(addr int) uint8 {
	return e.pokes[addr]
}

// SetProgram installs the parsed program and resets the DATA cursor
func (e *Environment) SetProgram(prog *ast.Program) {
	e.program = prog
	e.data = prog.ConstData()
}

// Program returns the installed program
func (e *Environment) Program() *ast.Program {
	return e.program
}

// Data returns the global DATA cursor
func (e *Environment) Data() *ast.ConstData {
	return e.data
}

// Terminal allows access to the console front-end
func (e *Environment) Terminal() Console {
	return e.term
}

// Random returns a random number in [0, 1). Positive x draws a new
// value, zero repeats the last one, negative x reseeds first.
func (e *Environment) Random(x float64) float64 {
	if x < 0 {
		e.Randomize(int64(x))
	}
	if x != 0 {
		e.rndVal = e.rnd.Float64()
	}
	return e.rndVal
}

// Randomize takes in a new seed and starts a new random series
func (e *Environment) Randomize(seed int64) {
	e.rnd = rand.New(rand.NewSource(seed))
	e.rndVal = e.rnd.Float64()
}

// RequestStop asks the interpreter to wind down; safe from any goroutine
func (e *Environment) RequestStop() {
	e.stopped.Store(true)
}

// StopRequested is polled on every step and input wait
func (e *Environment) StopRequested() bool {
	return e.stopped.Load()
}
