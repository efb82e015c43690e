// Package screen models the C64 40x25 text display. The interpreter
// writes to it; the terminal front-end renders snapshots of it under a
// shared lock.
package screen

import (
	"strings"
	"sync"

	"github.com/dotfunc/c64basic/petscii"
)

const (
	// Width is the C64 character columns
	Width = 40
	// Height is the C64 character rows
	Height = 25
)

// C64 palette indices; POKE values are coerced into this range
const (
	Black = iota
	White
	Red
	Cyan
	Purple
	Green
	Blue
	Yellow
	Orange
	Brown
	LightRed
	DarkGrey
	Grey
	LightGreen
	LightBlue
	LightGrey
)

// Cell is one character position
type Cell struct {
	Ch      rune
	Reverse bool
}

// Screen is safe for use from the interpreter and render goroutines
type Screen struct {
	mu sync.Mutex

	grid    [Height][Width]Cell
	row     int
	col     int
	reverse bool

	border     int
	background int
	text       int

	input    string
	waiting  bool
	lineCh   chan string
	quitCh   chan struct{}
	quitOnce sync.Once
}

// New returns a cleared screen with the stock C64 colors
func New() *Screen {
	s := &Screen{
		border:     LightBlue,
		background: Blue,
		text:       LightBlue,
		lineCh:     make(chan string, 1),
		quitCh:     make(chan struct{}),
	}
	s.clearLocked()
	return s
}

// Print writes text at the cursor, expanding [NAME] placeholders,
// wrapping at column 40 and scrolling past the bottom row
func (s *Screen) Print(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '\n' || ch == '\r' {
			s.newlineLocked()
			continue
		}

		// PETSCII control codes arrive via CHR$
		if ch < 32 || (ch >= 128 && ch <= 159) {
			switch ch {
			case 147: // clear/home
				s.clearLocked()
			case 18: // reverse on
				s.reverse = true
			case 146: // reverse off
				s.reverse = false
			}
			continue
		}

		if ch == '[' {
			if end := indexRune(runes[i+1:], ']'); end >= 0 {
				name := string(runes[i+1 : i+1+end])
				i += end + 1
				s.placeholderLocked(name)
				continue
			}
		}

		s.putLocked(ch)
	}
}

// Println prints the string followed by a newline
func (s *Screen) Println(text string) {
	s.Print(text)
	s.Newline()
}

// Newline moves the cursor to column 0 of the next row
func (s *Screen) Newline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newlineLocked()
}

// Cls clears the buffer and homes the cursor
func (s *Screen) Cls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Tab pads with spaces up to the requested column. It never moves
// backward and never wraps.
func (s *Screen) Tab(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > Width-1 {
		n = Width - 1
	}
	for s.col < n {
		s.putLocked(' ')
	}
}

// Spc emits n spaces
func (s *Screen) Spc(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.putLocked(' ')
	}
}

// Col reports the cursor column
func (s *Screen) Col() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col
}

// Cursor reports the cursor position (row, col)
func (s *Screen) Cursor() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.col
}

// ReverseOn makes subsequent cells render inverted
func (s *Screen) ReverseOn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reverse = true
}

// ReverseOff restores normal rendering
func (s *Screen) ReverseOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reverse = false
}

// PokeColor routes the color POKE targets. Values wrap through the
// 16-entry palette.
func (s *Screen) PokeColor(target string, value uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := int(value) % 16
	switch target {
	case "border":
		s.border = c
	case "background":
		s.background = c
	case "text":
		s.text = c
	}
}

// Colors returns the palette indices (border, background, text)
func (s *Screen) Colors() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.border, s.background, s.text
}

// Snapshot returns the grid rows with trailing spaces trimmed
func (s *Screen) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]string, Height)
	for r := 0; r < Height; r++ {
		var b strings.Builder
		for c := 0; c < Width; c++ {
			b.WriteRune(s.grid[r][c].Ch)
		}
		rows[r] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

// Cells copies the full grid for rendering
func (s *Screen) Cells() [Height][Width]Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// InputPending reports whether a ReadLine is waiting on the user
func (s *Screen) InputPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// ReadLine blocks until the front-end delivers a line via KeyEnter.
// The second return is false when the run was cancelled.
func (s *Screen) ReadLine() (string, bool) {
	s.mu.Lock()
	s.waiting = true
	s.input = ""
	s.mu.Unlock()

	select {
	case line := <-s.lineCh:
		return line, true
	case <-s.quitCh:
		return "", false
	}
}

// KeyChar appends a typed character to the input line and echoes it
func (s *Screen) KeyChar(ch rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting {
		return
	}
	s.input += string(ch)
	s.putLocked(ch)
}

// KeyBackspace removes the last input character
func (s *Screen) KeyBackspace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting || s.input == "" {
		return
	}
	runes := []rune(s.input)
	s.input = string(runes[:len(runes)-1])
	if s.col > 0 {
		s.col--
		s.grid[s.row][s.col] = Cell{Ch: ' '}
	}
}

// KeyEnter delivers the input line to a waiting ReadLine, no-op otherwise
func (s *Screen) KeyEnter() {
	s.mu.Lock()

	if !s.waiting {
		s.mu.Unlock()
		return
	}
	line := s.input
	s.input = ""
	s.waiting = false
	s.newlineLocked()
	s.mu.Unlock()

	s.lineCh <- line
}

// Interrupt unblocks any pending ReadLine; used on quit
func (s *Screen) Interrupt() {
	s.quitOnce.Do(func() { close(s.quitCh) })
}

// internals, caller holds the lock

func (s *Screen) putLocked(ch rune) {
	s.grid[s.row][s.col] = Cell{Ch: ch, Reverse: s.reverse}
	s.col++
	if s.col >= Width {
		s.newlineLocked()
	}
}

func (s *Screen) newlineLocked() {
	s.col = 0
	s.row++
	if s.row >= Height {
		s.scrollLocked()
		s.row = Height - 1
	}
}

func (s *Screen) scrollLocked() {
	copy(s.grid[0:], s.grid[1:])
	for c := 0; c < Width; c++ {
		s.grid[Height-1][c] = Cell{Ch: ' '}
	}
}

func (s *Screen) clearLocked() {
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			s.grid[r][c] = Cell{Ch: ' '}
		}
	}
	s.row = 0
	s.col = 0
}

func (s *Screen) placeholderLocked(name string) {
	switch name {
	case "CLR":
		s.clearLocked()
	case "REVERSE":
		s.reverse = !s.reverse
	default:
		if r, ok := petscii.Placeholder(name); ok {
			s.putLocked(r)
		}
		// unknown placeholders are dropped
	}
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}
