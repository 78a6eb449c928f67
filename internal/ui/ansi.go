package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
	symWarn  = "!"
)

var (
	forceColor   bool
	disableColor bool
)

// Out and Err receive everything the helpers print. Tests swap them.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	f, ok := Out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(Out, C(fgGreen, symCheck+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Out, C(fgYellow, symWarn+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(fgRed, symCross+" "+msg)) }

// Hint prints a muted follow-up line on stderr.
func Hint(msg string) { fmt.Fprintln(Err, C(fgGray, "Hint: "+msg)) }
