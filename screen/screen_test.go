package screen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintAndSnapshot(t *testing.T) {
	s := New()
	s.Print("HELLO")

	snap := s.Snapshot()
	assert.Equal(t, "HELLO", snap[0])
	for _, row := range snap[1:] {
		assert.Equal(t, "", row)
	}

	row, col := s.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 5, col)
}

func TestClearEmptiesEveryRow(t *testing.T) {
	s := New()
	s.Print("SOME TEXT")
	s.Newline()
	s.Print("MORE")
	s.Cls()

	for _, row := range s.Snapshot() {
		assert.Equal(t, "", row)
	}

	row, col := s.Cursor()
	assert.Zero(t, row)
	assert.Zero(t, col)
}

func TestWrapAtColumn40(t *testing.T) {
	s := New()
	s.Print(strings.Repeat("A", 45))

	snap := s.Snapshot()
	assert.Equal(t, strings.Repeat("A", 40), snap[0])
	assert.Equal(t, "AAAAA", snap[1])

	row, col := s.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 5, col)
}

func TestScrollDropsTopRow(t *testing.T) {
	s := New()
	for i := 0; i < Height; i++ {
		s.Print("ROW")
		s.Newline()
	}

	// the final newline scrolled row 0 away
	snap := s.Snapshot()
	assert.Equal(t, "ROW", snap[Height-2])
	assert.Equal(t, "", snap[Height-1])

	row, _ := s.Cursor()
	assert.Equal(t, Height-1, row)
}

func TestTabNeverMovesBackward(t *testing.T) {
	s := New()
	s.Print("ABCDEF")
	s.Tab(3)

	_, col := s.Cursor()
	assert.Equal(t, 6, col)

	s.Tab(10)
	_, col = s.Cursor()
	assert.Equal(t, 10, col)
	assert.Equal(t, "ABCDEF", s.Snapshot()[0])
}

func TestSpcWritesSpaces(t *testing.T) {
	s := New()
	s.Print("A")
	s.Spc(3)
	s.Print("B")

	assert.Equal(t, "A   B", s.Snapshot()[0])
}

func TestPlaceholders(t *testing.T) {
	s := New()
	s.Print("[SIDE]X[BORDERS][BALL][FIELD]")
	assert.Equal(t, "│X─●▒", s.Snapshot()[0])

	s.Print("[CLR]")
	assert.Equal(t, "", s.Snapshot()[0])
	row, col := s.Cursor()
	assert.Zero(t, row)
	assert.Zero(t, col)
}

func TestReversePlaceholderToggles(t *testing.T) {
	s := New()
	s.Print("A[REVERSE]B[REVERSE]C")

	cells := s.Cells()
	assert.False(t, cells[0][0].Reverse)
	assert.True(t, cells[0][1].Reverse)
	assert.False(t, cells[0][2].Reverse)
}

func TestControlCodes(t *testing.T) {
	s := New()
	s.Print("AB")
	s.Print(string(rune(147))) // CHR$(147) clears
	assert.Equal(t, "", s.Snapshot()[0])

	s.Print(string(rune(18)) + "R" + string(rune(146)) + "N")
	cells := s.Cells()
	assert.True(t, cells[0][0].Reverse)
	assert.False(t, cells[0][1].Reverse)

	// charset switches are accepted and invisible
	s.Print(string(rune(142)))
	_, col := s.Cursor()
	assert.Equal(t, 2, col)
}

func TestPokeColor(t *testing.T) {
	s := New()
	s.PokeColor("border", 0)
	s.PokeColor("background", 1)
	s.PokeColor("text", 21) // wraps through the 16-entry palette

	border, bg, txt := s.Colors()
	assert.Equal(t, Black, border)
	assert.Equal(t, White, bg)
	assert.Equal(t, Green, txt)
}

func TestReadLineDelivery(t *testing.T) {
	s := New()

	got := make(chan string, 1)
	go func() {
		line, ok := s.ReadLine()
		assert.True(t, ok)
		got <- line
	}()

	// wait for the reader to register
	for !s.InputPending() {
		time.Sleep(time.Millisecond)
	}

	for _, ch := range "42X" {
		s.KeyChar(ch)
	}
	s.KeyBackspace()
	s.KeyEnter()

	assert.Equal(t, "42", <-got)
}

func TestReadLineInterrupt(t *testing.T) {
	s := New()

	done := make(chan bool, 1)
	go func() {
		_, ok := s.ReadLine()
		done <- ok
	}()

	for !s.InputPending() {
		time.Sleep(time.Millisecond)
	}
	s.Interrupt()

	assert.False(t, <-done)
}

func TestKeyEnterWithoutReaderIsNoop(t *testing.T) {
	s := New()
	s.KeyChar('A')
	s.KeyEnter()
	assert.Equal(t, "", s.Snapshot()[0])
}
