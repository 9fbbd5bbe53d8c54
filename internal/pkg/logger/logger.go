package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger is a lightweight ports.Logger implementation backed by Go's log
// package. Debug/Info/Warn are gated behind verbose mode; errors are always
// written.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return NewStdWithWriter(verbose, os.Stderr)
}

// NewStdWithWriter creates a StdLogger writing to the given sink.
func NewStdWithWriter(verbose bool, w io.Writer) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(w, "", log.LstdFlags),
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if err != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
	}
	l.print("[ERROR]", msg, fields)
}

func (l *StdLogger) print(level, msg string, fields map[string]interface{}) {
	if len(fields) == 0 {
		l.out.Println(level, msg)
		return
	}
	l.out.Println(level, msg, fields)
}
