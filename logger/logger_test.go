package logger_test

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
)

var (
	logLevelRegexp = regexp.MustCompile(`^\[[A-Z]+\]`)
	fpRegexp       = regexp.MustCompile(`logger_test\.go:\d+`)
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

func contextWithRequestID(r *http.Request, id string) context.Context {
	return context.WithValue(r.Context(), synkro.RequestIDKey, id)
}

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"debug", logger.LogLevelUnk},
		{"", logger.LogLevelUnk},
	} {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, logger.NewLogLevel(tc.input))
		})
	}

	require.Equal(t, "[WARN]", logger.LogLevelWarn.String())
	require.Equal(t, "[UNK]", logger.LogLevel(99).String())
}

func TestColorLogger(t *testing.T) {
	color.NoColor = true
	t.Setenv("SENTRY_DSN", "")

	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(newTestLogger(b)), logger.WithLevel(logger.LogLevelWarn))

	// Act
	l.Debug("quiet", nil)
	l.Info("quiet", nil)

	// Assert
	require.Zero(t, b.Len())
	require.Equal(t, logger.LogLevelWarn, l.LogLevel())

	// Act
	l.Warn("loud", &logger.LogContext{Data: map[string]any{"event": "recE1"}})

	// Assert
	line := b.String()
	require.Regexp(t, logLevelRegexp, line)
	require.Regexp(t, fpRegexp, line)
	require.Contains(t, line, "'loud'")
	require.Contains(t, line, `log_context: {"data":{"event":"recE1"}}`)

	// Arrange
	b.Reset()

	// Act
	l.Error("override", &logger.LogContext{Caller: "worker/prune.go:12"})

	// Assert
	require.Contains(t, b.String(), "[ERROR] worker/prune.go:12 'override'")
}

func TestColorLoggerAddSkip(t *testing.T) {
	// Arrange
	l := logger.New(logger.WithSkip(1)).(logger.SkipLogger)

	// Act
	skipped := l.AddSkip(3)

	// Assert
	require.Equal(t, 1, l.Skip())
	require.Equal(t, 3, skipped.Skip())
}
