package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler writes bare messages without timestamps or level prefixes.
type consoleHandler struct {
	writer io.Writer
	debug  *bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return *h.debug
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// newRotatingFile creates the lumberjack writer behind the debug log.
// ST_LOG_MAX_SIZE (MB), ST_LOG_MAX_BACKUPS and ST_LOG_MAX_AGE (days)
// override the defaults.
func newRotatingFile(path string) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1,
		MaxBackups: 2,
		MaxAge:     30,
	}
	if n, err := strconv.Atoi(os.Getenv("ST_LOG_MAX_SIZE")); err == nil && n > 0 {
		l.MaxSize = n
	}
	if n, err := strconv.Atoi(os.Getenv("ST_LOG_MAX_BACKUPS")); err == nil && n >= 0 {
		l.MaxBackups = n
	}
	if n, err := strconv.Atoi(os.Getenv("ST_LOG_MAX_AGE")); err == nil && n > 0 {
		l.MaxAge = n
	}
	return l
}

// newFileLogger builds a zap logger writing JSON lines to w at debug level.
func newFileLogger(w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// Splog prints user-facing messages and mirrors them into the debug log.
type Splog struct {
	console *slog.Logger
	file    *zap.Logger
	writer  io.Writer
	closer  io.Closer
	debug   bool
}

// NewSplog creates a console-only logger on stdout. Debug messages are
// shown when the DEBUG environment variable is set.
func NewSplog() *Splog {
	return NewSplogWithWriter(os.Stdout)
}

// NewSplogWithWriter creates a console-only logger writing to w.
func NewSplogWithWriter(w io.Writer) *Splog {
	s := &Splog{
		writer: w,
		file:   zap.NewNop(),
		debug:  os.Getenv("DEBUG") != "",
	}
	s.console = slog.New(&consoleHandler{writer: w, debug: &s.debug})
	return s
}

// EnableFileLog additionally writes every message, debug included, to a
// rotating file at path.
func (s *Splog) EnableFileLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	rotating := newRotatingFile(path)
	s.file = newFileLogger(rotating)
	s.closer = rotating
	return nil
}

// SetDebug toggles debug output on the console.
func (s *Splog) SetDebug(debug bool) {
	s.debug = debug
}

// Close flushes and closes the debug log.
func (s *Splog) Close() error {
	_ = s.file.Sync()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Writer returns the console writer.
func (s *Splog) Writer() io.Writer {
	return s.writer
}

// log writes prefix+msg to the console and the bare msg to the file log.
func (s *Splog) log(level slog.Level, prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.console.Log(context.Background(), level, prefix+msg)

	switch level {
	case slog.LevelDebug:
		s.file.Debug(msg)
	case slog.LevelWarn:
		s.file.Warn(msg)
	case slog.LevelError:
		s.file.Error(msg)
	default:
		s.file.Info(msg)
	}
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "", format, args)
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, "", format, args)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, "⚠️  ", format, args)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	s.log(slog.LevelError, ColorRed("Error: "), format, args)
}

// Tip writes a hint following an error or warning.
func (s *Splog) Tip(format string, args ...interface{}) {
	s.log(slog.LevelInfo, ColorDim("Tip: "), format, args)
}

// Page writes output that should be paged (for now, just print)
func (s *Splog) Page(content string) {
	_, _ = fmt.Fprint(s.writer, content)
}

// Newline writes a newline
func (s *Splog) Newline() {
	_, _ = fmt.Fprintln(s.writer)
}
