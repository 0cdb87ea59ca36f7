// Package loggertest provides a logger.Logger recording what it is asked to log.
package loggertest

import (
	"sync"

	"github.com/xy-planning-network/synkro/logger"
)

var _ logger.Logger = (*Logger)(nil)

// An Entry is a single call to a Logger.
type Entry struct {
	Level logger.LogLevel
	Msg   string
	Ctx   *logger.LogContext
}

// Logger records every Entry. It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

// New constructs an empty *Logger.
func New() *Logger { return new(Logger) }

func (l *Logger) Debug(msg string, ctx *logger.LogContext) { l.add(logger.LogLevelDebug, msg, ctx) }
func (l *Logger) Error(msg string, ctx *logger.LogContext) { l.add(logger.LogLevelError, msg, ctx) }
func (l *Logger) Fatal(msg string, ctx *logger.LogContext) { l.add(logger.LogLevelFatal, msg, ctx) }
func (l *Logger) Info(msg string, ctx *logger.LogContext)  { l.add(logger.LogLevelInfo, msg, ctx) }
func (l *Logger) Warn(msg string, ctx *logger.LogContext)  { l.add(logger.LogLevelWarn, msg, ctx) }

func (l *Logger) LogLevel() logger.LogLevel { return logger.LogLevelDebug }

// Entries returns a copy of every Entry so far.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the latest Entry, and false if there is none.
func (l *Logger) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return Entry{}, false
	}

	return l.entries[len(l.entries)-1], true
}

func (l *Logger) add(level logger.LogLevel, msg string, ctx *logger.LogContext) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Ctx: ctx})
}
