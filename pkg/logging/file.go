package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// logSink owns the output stream. Loggers derived with WithFields all
// share one sink, so writes and rotation stay serialized.
type logSink struct {
	mu     sync.Mutex
	writer io.Writer
	file   *os.File // nil when logging to a plain writer
	format Format

	path       string
	maxSize    int64
	maxBackups int
	size       int64
}

// LineLogger implements Logger with one line per entry, written to a
// file (with optional size rotation) or to an arbitrary writer.
type LineLogger struct {
	sink   *logSink
	level  Level
	fields Fields
}

// NewFileLogger creates a logger appending to the configured file
func NewFileLogger(config FileLoggerConfig) (*LineLogger, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &LineLogger{
		sink: &logSink{
			writer:     file,
			file:       file,
			format:     config.Format,
			path:       config.Path,
			maxSize:    config.MaxSize,
			maxBackups: config.MaxBackups,
			size:       info.Size(),
		},
		level: config.Level,
	}, nil
}

// NewWriterLogger creates a logger writing to w, typically stderr.
// Rotation does not apply.
func NewWriterLogger(w io.Writer, format Format, level Level) *LineLogger {
	return &LineLogger{
		sink: &logSink{
			writer: w,
			format: format,
		},
		level: level,
	}
}

// Debug logs a debug message
func (l *LineLogger) Debug(ctx context.Context, msg string, fields Fields) {
	if l.level <= DebugLevel {
		l.log(DebugLevel, msg, nil, fields)
	}
}

// Info logs an info message
func (l *LineLogger) Info(ctx context.Context, msg string, fields Fields) {
	if l.level <= InfoLevel {
		l.log(InfoLevel, msg, nil, fields)
	}
}

// Warn logs a warning message
func (l *LineLogger) Warn(ctx context.Context, msg string, fields Fields) {
	if l.level <= WarnLevel {
		l.log(WarnLevel, msg, nil, fields)
	}
}

// Error logs an error message
func (l *LineLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	if l.level <= ErrorLevel {
		l.log(ErrorLevel, msg, err, fields)
	}
}

// WithFields returns a logger with additional fields sharing this
// logger's output stream
func (l *LineLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &LineLogger{
		sink:   l.sink,
		level:  l.level,
		fields: merged,
	}
}

// Close flushes and closes the logger
func (l *LineLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	l.sink.writer = nil
	return err
}

// log formats and writes one entry
func (l *LineLogger) log(level Level, msg string, err error, fields Fields) {
	allFields := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		allFields[k] = v
	}
	for k, v := range fields {
		allFields[k] = v
	}

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	// Entries logged after Close are dropped
	if s.writer == nil {
		return
	}

	if s.maxSize > 0 && s.size >= s.maxSize {
		s.rotate()
	}

	var line []byte
	var formatErr error
	if s.format == FormatJSON {
		line, formatErr = formatJSON(level, msg, err, allFields)
	} else {
		line, formatErr = formatText(level, msg, err, allFields)
	}
	if formatErr != nil {
		return
	}

	n, _ := s.writer.Write(line)
	s.size += int64(n)
}

// formatJSON formats a log entry as one JSON line
func formatJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level.String(),
		"message":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}
	return append(data, '\n'), nil
}

// formatText formats a log entry as plain text
func formatText(level Level, msg string, err error, fields Fields) ([]byte, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	line := fmt.Sprintf("%s [%s] %s", timestamp, level, msg)

	if err != nil {
		line += fmt.Sprintf(" error=%q", err.Error())
	}
	for k, v := range fields {
		line += fmt.Sprintf(" %s=%v", k, v)
	}

	return []byte(line + "\n"), nil
}

// rotate swaps in a fresh log file, shifting existing backups.
// Callers hold the sink mutex.
func (s *logSink) rotate() {
	if s.file == nil {
		return
	}

	s.file.Close()

	for i := s.maxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", s.path, i)
		newPath := fmt.Sprintf("%s.%d", s.path, i+1)
		os.Rename(oldPath, newPath)
	}
	os.Rename(s.path, s.path+".1")

	if s.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", s.path, s.maxBackups+1))
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	s.file = file
	s.writer = file
	s.size = 0
}
