package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func statusColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ""
	}
}

// printStatusLine writes a "  label: message" line, colorized when the
// writer is a terminal.
func printStatusLine(w io.Writer, kind statusKind, label, message string) {
	line := fmt.Sprintf("  %-14s %s", label+":", message)
	if colorizeOutput(w) {
		if color := statusColor(kind); color != "" {
			line = color + line + ansiReset
		}
	}
	fmt.Fprintln(w, line)
}

func colorizeOutput(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
