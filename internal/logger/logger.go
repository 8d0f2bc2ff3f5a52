package logger

import (
	"sync"
)

// Levels accepted in configuration and by Get. The device logs to its serial
// console, so the default posture is chatty: anything unrecognized falls back
// to info.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first caller fixes the level;
// later calls get the same instance regardless of the level they pass, so
// main must be the first to ask for it.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
