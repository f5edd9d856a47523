package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgBlue)
)

func errorf(w io.Writer, format string, args ...any) {
	writeMessage(w, errorColor, "✗ ", format, args...)
}

func warningf(w io.Writer, format string, args ...any) {
	writeMessage(w, warningColor, "⚠ ", format, args...)
}

func successf(w io.Writer, format string, args ...any) {
	writeMessage(w, successColor, "✔ ", format, args...)
}

func infof(w io.Writer, format string, args ...any) {
	writeMessage(w, infoColor, "ℹ ", format, args...)
}

func writeMessage(w io.Writer, c *color.Color, symbol, format string, args ...any) {
	if w == nil {
		w = os.Stdout
	}
	if _, err := c.Fprintf(w, "%s%s\n", symbol, fmt.Sprintf(format, args...)); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}
