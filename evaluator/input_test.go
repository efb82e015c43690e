package evaluator

import (
	"strings"
	"testing"

	"github.com/dotfunc/c64basic/object"
	"github.com/dotfunc/c64basic/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTerm scripts the INPUT side of the console and records output
type mockTerm struct {
	out   strings.Builder
	lines []string
	col   int
}

func (mt *mockTerm) Print(msg string) {
	mt.out.WriteString(msg)
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		mt.col = len(msg) - i - 1
	} else {
		mt.col += len(msg)
	}
}

func (mt *mockTerm) Println(msg string) {
	mt.Print(msg)
	mt.Newline()
}

func (mt *mockTerm) Newline() {
	mt.out.WriteString("\n")
	mt.col = 0
}

func (mt *mockTerm) Cls() {
	mt.out.Reset()
	mt.col = 0
}

func (mt *mockTerm) Tab(n int) {
	for mt.col < n {
		mt.Print(" ")
	}
}

func (mt *mockTerm) Spc(n int) {
	mt.Print(strings.Repeat(" ", n))
}

func (mt *mockTerm) Col() int { return mt.col }

func (mt *mockTerm) PokeColor(target string, value uint8) {}

func (mt *mockTerm) ReadLine() (string, bool) {
	if len(mt.lines) == 0 {
		return "", false
	}
	line := mt.lines[0]
	mt.lines = mt.lines[1:]
	mt.Println(line)
	return line, true
}

func runWithInput(t *testing.T, src string, lines ...string) (*mockTerm, *object.Environment, error) {
	t.Helper()

	prog, err := parser.Parse(src)
	require.NoError(t, err)

	mt := &mockTerm{lines: lines}
	env := object.NewTermEnvironment(mt)
	env.SetProgram(prog)

	return mt, env, New(env).Run()
}

func TestInputNumber(t *testing.T) {
	mt, env, err := runWithInput(t, "10 INPUT A", "42")
	require.NoError(t, err)

	assert.Equal(t, " 42", env.Get("A").Inspect())
	assert.Contains(t, mt.out.String(), "? ")
}

func TestInputPrompt(t *testing.T) {
	mt, env, err := runWithInput(t, `10 INPUT "NAME";N$`, "LUCA")
	require.NoError(t, err)

	assert.Equal(t, "LUCA", env.Get("N$").Inspect())
	assert.True(t, strings.HasPrefix(mt.out.String(), "NAME? "))
}

func TestInputMultipleTargets(t *testing.T) {
	_, env, err := runWithInput(t, "10 INPUT A,B$,C", "1,DUE,3.5")
	require.NoError(t, err)

	assert.Equal(t, " 1", env.Get("A").Inspect())
	assert.Equal(t, "DUE", env.Get("B$").Inspect())
	assert.Equal(t, " 3.5", env.Get("C").Inspect())
}

func TestInputRepromptsOnBadNumber(t *testing.T) {
	mt, env, err := runWithInput(t, "10 INPUT A", "ABC", "", "7")
	require.NoError(t, err)

	assert.Equal(t, " 7", env.Get("A").Inspect())
	// one prompt per attempt
	assert.Equal(t, 3, strings.Count(mt.out.String(), "? "))
}

func TestInputEmptyStringAccepted(t *testing.T) {
	_, env, err := runWithInput(t, "10 INPUT A$", "")
	require.NoError(t, err)

	assert.Equal(t, "", env.Get("A$").Inspect())
}

func TestInputSignedAndFractional(t *testing.T) {
	_, env, err := runWithInput(t, "10 INPUT A,B", "-4,+2.25")
	require.NoError(t, err)

	assert.Equal(t, "-4", env.Get("A").Inspect())
	assert.Equal(t, " 2.25", env.Get("B").Inspect())
}

func TestInputArrayTarget(t *testing.T) {
	_, env, err := runWithInput(t, "10 DIM A(5):INPUT A(2)", "9")
	require.NoError(t, err)

	arr := env.GetArray("A")
	require.NotNil(t, arr)
	off, ok := arr.Offset([]int{2})
	require.True(t, ok)
	assert.Equal(t, " 9", arr.Elements[off].Inspect())
}

func TestInputCancelledStopsRun(t *testing.T) {
	// no scripted lines: ReadLine reports cancellation
	_, _, err := runWithInput(t, `10 INPUT A:PRINT "NEVER"`)
	assert.NoError(t, err)
}
