// c64basic runs a Commodore 64 BASIC V2 program inside a terminal
// emulation of the 40x25 text screen.
//
//	c64basic [--prg] [--trace FILE] program.bas
//
// Exit status: 0 on a clean END or user quit, 1 when the program fails
// to load, 2 on a runtime error.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dotfunc/c64basic/evaluator"
	"github.com/dotfunc/c64basic/object"
	"github.com/dotfunc/c64basic/parser"
	"github.com/dotfunc/c64basic/prgtoken"
	"github.com/dotfunc/c64basic/screen"
	"github.com/dotfunc/c64basic/terminal"
	"github.com/dotfunc/c64basic/trace"
)

var (
	prgMode   = flag.Bool("prg", false, "decode a tokenized PRG image instead of plain text")
	traceFile = flag.String("trace", "", "log executed statements to `FILE`")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [--prg] [--trace FILE] program\n", os.Args[0])
		os.Exit(1)
	}

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "trace: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		trace.Init(f)
	}

	source, err := loadSource(flag.Arg(0), *prgMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	prog, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	scr := screen.New()
	env := object.NewTermEnvironment(scr)
	env.SetProgram(prog)
	env.Randomize(seed())

	ip := evaluator.New(env)
	if err := terminal.New(scr).Run(ip, env); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
}

func loadSource(path string, prg bool) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if prg {
		return prgtoken.Detokenize(raw)
	}
	return string(raw), nil
}

// seed honors the SEED environment variable for reproducible runs
func seed() int64 {
	if s := os.Getenv("SEED"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return time.Now().UnixNano()
}
