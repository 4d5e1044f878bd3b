// Package logger defines the logging facade shared by the sparkblocks engine,
// the blockmark codec, and the editor bridge. The default implementation is
// backed by zerolog; a log/slog adapter lives in the slog subpackage.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger accepts a message plus alternating key/value pairs, slog-style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ZeroLogger adapts a zerolog.Logger to the Logger interface.
type ZeroLogger struct {
	log zerolog.Logger
}

// New returns a ZeroLogger writing JSON lines to stderr.
func New() *ZeroLogger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a ZeroLogger writing JSON lines to w.
func NewWithWriter(w io.Writer) *ZeroLogger {
	return &ZeroLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(log zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{log: log}
}

func (z *ZeroLogger) Debug(msg string, args ...any) { emit(z.log.Debug(), msg, args) }
func (z *ZeroLogger) Info(msg string, args ...any)  { emit(z.log.Info(), msg, args) }
func (z *ZeroLogger) Warn(msg string, args ...any)  { emit(z.log.Warn(), msg, args) }
func (z *ZeroLogger) Error(msg string, args ...any) { emit(z.log.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, args[i+1])
	}
	ev.Msg(msg)
}

// Nop discards everything. Useful as a default for pure-library callers that
// did not configure logging.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
