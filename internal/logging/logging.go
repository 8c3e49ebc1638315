// Package logger provides leveled, colored logging for sealed CLI
// commands. Every level writes to stderr: stdout is reserved for
// command results (get prints the value, keygen the key), so logging
// can never corrupt a shell pipeline.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger gates output on the --verbose and --debug flags. Debug
// implies verbose. The zero value logs warnings and errors only.
type Logger struct {
	Verbose bool
	Debug   bool

	// Out overrides the destination, stderr when nil.
	Out io.Writer
}

func (l Logger) Infof(format string, args ...any) {
	if l.Verbose || l.Debug {
		l.printf(color.GreenString("[info]"), format, args...)
	}
}

func (l Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.printf(color.CyanString("[debug]"), format, args...)
	}
}

func (l Logger) Warnf(format string, args ...any) {
	l.printf(color.YellowString("[warn]"), format, args...)
}

func (l Logger) Errorf(format string, args ...any) {
	l.printf(color.RedString("[error]"), format, args...)
}

func (l Logger) printf(prefix, format string, args ...any) {
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
