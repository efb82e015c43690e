// Package terminal hosts the interpreter inside a raw-mode,
// alternate-screen TUI with a 40x25 render area and a status row.
package terminal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dotfunc/c64basic/evaluator"
	"github.com/dotfunc/c64basic/object"
	"github.com/dotfunc/c64basic/screen"
)

const margin = 2 // border columns around the render area

// ANSI 256-color approximations of the C64 palette, indexed the same
// way as the screen package
var palette = [16]int{
	16,  // black
	231, // white
	124, // red
	80,  // cyan
	133, // purple
	71,  // green
	25,  // blue
	185, // yellow
	172, // orange
	94,  // brown
	174, // light red
	238, // dark grey
	245, // grey
	114, // light green
	68,  // light blue
	250, // light grey
}

// Terminal owns the tty while a program runs
type Terminal struct {
	scr    *screen.Screen
	keysCh chan byte
}

// New wraps a screen for rendering
func New(scr *screen.Screen) *Terminal {
	return &Terminal{
		scr:    scr,
		keysCh: make(chan byte, 64),
	}
}

// Run drives the interpreter until END, error or Escape. The returned
// error is the runtime failure, nil on a clean end or user quit.
func (t *Terminal) Run(ip *evaluator.Interpreter, env *object.Environment) error {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	os.Stdout.WriteString("\x1b[?1049h\x1b[?25l\x1b[2J")
	defer func() {
		os.Stdout.WriteString("\x1b[0m\x1b[?25h\x1b[?1049l")
		term.Restore(fd, oldState)
	}()

	go t.readKeys(env)

	render := time.NewTicker(30 * time.Millisecond)
	defer render.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-render.C:
				t.draw("")
			case <-done:
				return
			}
		}
	}()

	for {
		more, err := ip.Step()

		if err != nil {
			render.Stop()
			t.draw("?" + strings.ToUpper(err.Error()) + "  (press a key)")
			t.awaitKey()
			return err
		}
		if !more {
			if env.StopRequested() {
				return nil
			}
			render.Stop()
			t.draw("READY.  (press a key)")
			t.awaitKey()
			return nil
		}

		// throttle so the render loop can keep up
		time.Sleep(100 * time.Microsecond)
	}
}

// readKeys owns stdin. While an INPUT waits, keystrokes edit the input
// line; Escape always cancels the run.
func (t *Terminal) readKeys(env *object.Environment) {
	buf := make([]byte, 64)

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			env.RequestStop()
			t.scr.Interrupt()
			return
		}

		for i := 0; i < n; i++ {
			b := buf[i]

			if b == 0x1b {
				// a bare escape quits; CSI sequences are dropped
				if i+1 < n {
					i = n
					continue
				}
				env.RequestStop()
				t.scr.Interrupt()
				select {
				case t.keysCh <- b:
				default:
				}
				return
			}

			select {
			case t.keysCh <- b:
			default:
			}

			if !t.scr.InputPending() {
				continue
			}

			switch {
			case b == '\r' || b == '\n':
				t.scr.KeyEnter()
			case b == 0x7f || b == 0x08:
				t.scr.KeyBackspace()
			case b >= 32 && b < 127:
				t.scr.KeyChar(rune(b))
			}
		}
	}
}

// awaitKey blocks until any key arrives, for at most one minute
func (t *Terminal) awaitKey() {
	select {
	case <-t.keysCh:
	case <-time.After(time.Minute):
	}
}

// draw paints the bordered grid and the status row
func (t *Terminal) draw(status string) {
	cells := t.scr.Cells()
	border, bg, txt := t.scr.Colors()
	curRow, curCol := t.scr.Cursor()
	pending := t.scr.InputPending()

	borderBg := fmt.Sprintf("\x1b[48;5;%dm", palette[border])
	cellBg := fmt.Sprintf("\x1b[48;5;%dm", palette[bg])
	cellFg := fmt.Sprintf("\x1b[38;5;%dm", palette[txt])
	revBg := fmt.Sprintf("\x1b[48;5;%dm", palette[txt])
	revFg := fmt.Sprintf("\x1b[38;5;%dm", palette[bg])

	var b strings.Builder
	b.WriteString("\x1b[H")

	pad := strings.Repeat(" ", screen.Width+2*margin)
	b.WriteString(borderBg + pad + "\x1b[0m\r\n")

	for r := 0; r < screen.Height; r++ {
		b.WriteString(borderBg + strings.Repeat(" ", margin))
		b.WriteString(cellBg + cellFg)
		for c := 0; c < screen.Width; c++ {
			cell := cells[r][c]
			inverted := cell.Reverse != (pending && r == curRow && c == curCol)
			if inverted {
				b.WriteString(revBg + revFg)
				b.WriteRune(cell.Ch)
				b.WriteString(cellBg + cellFg)
			} else {
				b.WriteRune(cell.Ch)
			}
		}
		b.WriteString(borderBg + strings.Repeat(" ", margin))
		b.WriteString("\x1b[0m\r\n")
	}

	b.WriteString(borderBg + pad + "\x1b[0m\r\n")
	b.WriteString("\x1b[0m\x1b[K" + status)

	os.Stdout.WriteString(b.String())
}
