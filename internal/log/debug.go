// Package log provides the debug logger used across gitplus.
//
// Records are formatted by zerolog and written to a DebugLogger, which
// buffers them until a log file is configured, or drops them when logging is
// disabled.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006/01/02 15:04:05.000000"

// DebugLogger handles debug logging to file and/or buffering.
// It implements io.Writer so it can back a zerolog.Logger.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	logger            = zerolog.New(zerolog.ConsoleWriter{
		Out:        globalDebugLogger,
		NoColor:    true,
		TimeFormat: timeFormat,
	}).With().Timestamp().Logger()
)

// Write implements io.Writer.
// It writes to the file if set, otherwise appends to the buffer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.file != nil {
		n, err = l.file.Write(p)
		// sync errors are not critical for logging
		_ = l.file.Sync()
		return n, err
	}

	// p might be reused by the caller
	b := make([]byte, len(p))
	copy(b, p)
	l.buffer = append(l.buffer, b...)
	return len(p), nil
}

// SetFile sets the debug log file path. Creates the file if it doesn't exist.
// If path is empty, discards all buffered logs and future logs.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file != nil {
		_ = globalDebugLogger.file.Close()
		globalDebugLogger.file = nil
	}

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = f
	globalDebugLogger.discard = false

	if len(globalDebugLogger.buffer) > 0 {
		_, _ = f.Write(globalDebugLogger.buffer)
		_ = f.Sync()
		globalDebugLogger.buffer = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	logger.Debug().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug starts a structured debug record.
func Debug() *zerolog.Event {
	return logger.Debug()
}

// Error starts a structured error record.
func Error() *zerolog.Event {
	return logger.Error()
}

// Close closes the debug log file if open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}

	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	return err
}
