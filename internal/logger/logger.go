package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Environment variable to configure log file path.
const envLogPath = "FEED_MCP_LOG"

var (
	mu            sync.Mutex
	std           = zerolog.Nop()
	logFile       *os.File
	isInitialized bool
)

// InitFromEnv initializes the logger using FEED_MCP_LOG or a default path.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "feed-mcp.log")
		} else {
			path = "./feed-mcp.log"
		}
	}
	return Init(path)
}

// Init initializes the logger to write JSON lines to the provided file path.
// It creates parent directories if needed and opens the file in append mode.
// Stdout is never used: it carries the MCP stdio transport.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if isInitialized {
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	std = newLogger(f)
	isInitialized = true
	return nil
}

// SetOutput routes log lines to w, replacing any file opened by Init.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std = newLogger(w)
	isInitialized = true
}

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).With().Timestamp().Logger()
}

// Close closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std = zerolog.Nop()
	isInitialized = false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Logger returns the structured logger for callers that attach fields.
func Logger() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := std
	return &l
}

// Infof logs informational messages.
func Infof(format string, args ...any) { write(zerolog.InfoLevel, format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write(zerolog.WarnLevel, format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write(zerolog.ErrorLevel, format, args...) }

func write(level zerolog.Level, format string, args ...any) {
	l := Logger()
	l.WithLevel(level).Msg(fmt.Sprintf(format, args...))
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
