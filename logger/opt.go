package logger

import "log"

// A LoggerOptFn is a functional option configuring a ColorLogger when constructing a new one.
type LoggerOptFn func(*ColorLogger)

// WithEnv sets the environment ColorLogger is operating in.
func WithEnv(env string) func(*ColorLogger) {
	return func(l *ColorLogger) {
		l.env = env
	}
}

// WithLevel sets the log level ColorLogger uses.
func WithLevel(level LogLevel) func(*ColorLogger) {
	return func(l *ColorLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger ColorLogger uses.
func WithLogger(log *log.Logger) func(*ColorLogger) {
	return func(l *ColorLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*ColorLogger) {
	return func(l *ColorLogger) {
		l.skip = skip
	}
}
