package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Logger provides structured file-based logging. The MCP stdio transport owns
// stdout, so all diagnostics go to a timestamped file under the log directory.
type Logger struct {
	*slog.Logger
	file *os.File
}

// NewLogger creates a new logger instance
func NewLogger(logDir string) (*Logger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log file with timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("agent_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{
		Logger: slog.New(slog.NewTextHandler(file, nil)),
		file:   file,
	}, nil
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogToolCall logs a single tool invocation and its outcome
func (l *Logger) LogToolCall(action string, args map[string]interface{}, result interface{}, err error) {
	if err != nil {
		l.Error("tool call failed", "action", action, "args", args, "error", err)
		return
	}
	l.Info("tool call", "action", action, "args", args, "result", result)
}
