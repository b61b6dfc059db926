package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level and encoding of the process logger.
type Config struct {
	Level  string
	Format string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init builds the process-wide logger on first call. Later calls return the
// existing instance and ignore cfg.
func Init(cfg Config) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(cfg)
	})
	return globalLogger
}

// Get returns the singleton logger, initializing it with a console encoder
// at the given level if nothing else has.
func Get(level string) *Logger {
	return Init(Config{Level: level, Format: FormatConsole})
}
