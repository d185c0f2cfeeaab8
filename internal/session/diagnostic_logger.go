package session

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiagnosticLogger carries codenav's non-protocol diagnostic output.
// In MCP-adapter mode stdio must stay clean for protocol traffic, so
// diagnostics go to a file instead; in CLI mode they go to stderr.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
	isMCP    bool
}

// NewDiagnosticLogger builds a logger for the given mode. isMCP selects
// file-backed logging under a temp/home directory; otherwise logs go to
// stderr.
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	dl := &DiagnosticLogger{isMCP: isMCP}

	if !isMCP {
		dl.logger = log.New(os.Stderr, "[codenav] ", log.LstdFlags)
		return dl
	}

	logDir := filepath.Join(os.TempDir(), "codenav-mcp-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		logDir = filepath.Join(homeDir, ".codenav-mcp-logs")
		_ = os.MkdirAll(logDir, 0755)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("codenav-mcp-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		dl.logger = log.New(io.Discard, "", 0)
		return dl
	}

	dl.file = file
	dl.filePath = logPath
	dl.logger = log.New(file, "[codenav-mcp] ", log.LstdFlags|log.Lshortfile)
	return dl
}

// Printf logs a diagnostic message.
func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf(format, v...)
}

// Errorf logs an error-level diagnostic message.
func (dl *DiagnosticLogger) Errorf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf("ERROR: "+format, v...)
}

// Close closes the backing log file, if any.
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		return dl.file.Close()
	}
	return nil
}

// LogPath returns the diagnostic log file path, or "" in stderr mode.
func (dl *DiagnosticLogger) LogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

// NoOpLogger discards all diagnostics; used by tests and by callers that
// never want file or stderr output.
var NoOpLogger = &DiagnosticLogger{logger: log.New(io.Discard, "", 0)}
