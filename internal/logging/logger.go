// Package logging provides the configured zerolog logger and adapters that
// route Wails and GORM output through it.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// New returns a logger writing JSON lines to stdout.
func New(serviceName string, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, level)
}

func NewWithWriter(w io.Writer, serviceName string, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// WailsLogger satisfies the Wails logger interface.
type WailsLogger struct {
	log zerolog.Logger
}

var _ wailslogger.Logger = (*WailsLogger)(nil)

func NewWailsLogger(log zerolog.Logger) *WailsLogger {
	return &WailsLogger{log: log.With().Str("component", "wails").Logger()}
}

func (l *WailsLogger) Print(message string)   { l.log.Log().Msg(message) }
func (l *WailsLogger) Trace(message string)   { l.log.Trace().Msg(message) }
func (l *WailsLogger) Debug(message string)   { l.log.Debug().Msg(message) }
func (l *WailsLogger) Info(message string)    { l.log.Info().Msg(message) }
func (l *WailsLogger) Warning(message string) { l.log.Warn().Msg(message) }
func (l *WailsLogger) Error(message string)   { l.log.Error().Msg(message) }
func (l *WailsLogger) Fatal(message string)   { l.log.Fatal().Msg(message) }

// Writer satisfies io.Writer for loggers that only accept a writer (GORM)
// and forwards each write as one log line.
type Writer struct {
	log zerolog.Logger
}

func NewWriter(log zerolog.Logger) Writer {
	return Writer{log: log}
}

func (w Writer) Write(p []byte) (int, error) {
	w.log.Info().Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
