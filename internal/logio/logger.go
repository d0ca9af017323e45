package logio

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
)

// Logger is a slog.Logger that remembers whether anything was logged at
// error level, facilitating "exit non-zero if any error log" semantics.
type Logger struct {
	*slog.Logger
	errored *atomic.Bool
}

// Options configures New.
type Options struct {
	// Level is the minimum level for every sink; nil means slog.LevelWarn.
	Level slog.Leveler

	// JSON, if not nil, receives every record as a JSON line alongside the
	// text output.
	JSON io.Writer
}

// New returns a Logger writing human readable text to w, fanned out to any
// additional sink in opts.
func New(w io.Writer, opts Options) *Logger {
	level := opts.Level
	if level == nil {
		level = slog.LevelWarn
	}
	hopts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(w, hopts)}
	if opts.JSON != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.JSON, hopts))
	}

	errored := new(atomic.Bool)
	return &Logger{
		Logger: slog.New(errorHandler{
			Handler: slogmulti.Fanout(handlers...),
			errored: errored,
		}),
		errored: errored,
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, Options{Level: slog.LevelError + 1})
}

// ExitCode returns 1 if any error record has been logged, 0 otherwise.
func (log *Logger) ExitCode() int {
	if log.errored.Load() {
		return 1
	}
	return 0
}

// ErrorIf logs any non-nil err at error level.
func (log *Logger) ErrorIf(err error, mess string, args ...any) {
	if err != nil {
		log.Error(mess, append(args, "error", err)...)
	}
}

type errorHandler struct {
	slog.Handler
	errored *atomic.Bool
}

func (h errorHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		h.errored.Store(true)
	}
	return h.Handler.Handle(ctx, record)
}

func (h errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return errorHandler{h.Handler.WithAttrs(attrs), h.errored}
}

func (h errorHandler) WithGroup(name string) slog.Handler {
	return errorHandler{h.Handler.WithGroup(name), h.errored}
}
