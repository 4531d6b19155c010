package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"
)

// Logger provides leveled, timestamped logging. Debug output is silenced
// unless the DEBUG env var is set truthy: a full scrape emits one Debug line
// per listing, which is too noisy for normal runs.
type Logger struct {
	out    *log.Logger
	errOut *log.Logger
	debug  *log.Logger
}

// NewLogger creates a Logger writing to stdout, with errors on stderr.
func NewLogger() *Logger {
	var debugSink io.Writer = io.Discard
	if on, _ := strconv.ParseBool(os.Getenv("DEBUG")); on {
		debugSink = os.Stdout
	}

	return &Logger{
		out:    log.New(os.Stdout, "", 0),
		errOut: log.New(os.Stderr, "", 0),
		debug:  log.New(debugSink, "", 0),
	}
}

func (l *Logger) logf(dst *log.Logger, color, level, format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	dst.Printf(fmt.Sprintf("[%s] %s%-5s\033[0m %s\n", ts, color, level, format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.logf(l.out, "\033[32m", "INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.logf(l.out, "\033[33m", "WARN", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.logf(l.errOut, "\033[31m", "ERROR", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.logf(l.debug, "\033[36m", "DEBUG", format, args...)
}
