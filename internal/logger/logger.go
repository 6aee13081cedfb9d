// Package logger provides a leveled console logger with optional color.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a log severity; higher is more severe.
type Level int

// Levels in increasing severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

var levelColors = [...]color.Attribute{color.FgHiBlack, color.FgCyan, color.FgBlue, color.FgYellow, color.FgRed}

func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return "INFO"
	}
	return levelNames[l]
}

// ParseLevel maps trace, debug, info, warn or error (any case) to a Level.
// ok is false for anything else, in which case LevelInfo is returned.
func ParseLevel(s string) (Level, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "WARNING" {
		norm = "WARN"
	}
	for i, name := range levelNames {
		if name == norm {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Logger writes "[HH:MM:SS] [LEVEL] message" lines. It is safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	color bool
	now   func() time.Time
}

// New returns a logger writing to w at the given minimum level.
// Color is used only when w is a terminal and NO_COLOR is unset.
func New(w io.Writer, level Level) *Logger {
	return &Logger{w: w, level: level, color: isTerminal(w), now: time.Now}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(nil, LevelError+1)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Level returns the minimum level that is written.
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether messages at lvl are written.
func (l *Logger) Enabled(lvl Level) bool {
	return l != nil && l.w != nil && lvl >= l.level
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...any) { l.logf(LevelTrace, format, args...) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	name := lvl.String()

	l.mu.Lock()
	defer l.mu.Unlock()
	ts := l.now().Format("15:04:05")
	if l.color {
		c := color.New(levelColors[lvl])
		c.EnableColor()
		name = c.Sprint(name)
	}
	if _, err := fmt.Fprintf(l.w, "[%s] [%s] %s\n", ts, name, msg); err != nil {
		// Best-effort logging.
		_ = err
	}
}
