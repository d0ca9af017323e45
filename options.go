package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jcorbin/gobfi/internal/flushio"
	"github.com/jcorbin/gobfi/internal/logio"
)

// MachineOption customizes a Machine created by New.
type MachineOption interface{ apply(m *Machine) }

// MachineOptions combines any number of options into one; nil options are
// skipped.
func MachineOptions(opts ...MachineOption) MachineOption {
	var res machineOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case machineOptions:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type machineOptions []MachineOption

func (opts machineOptions) apply(m *Machine) {
	for _, opt := range opts {
		opt.apply(m)
	}
}

var defaultOptions = MachineOptions(
	WithInput(bytes.NewReader(nil)),
	WithOutput(io.Discard),
	WithLogger(logio.Discard().Logger),
)

type tapeSizeOption int
type optimizeOption bool
type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type loggerOption struct{ *slog.Logger }

// WithTapeSize sets the number of tape cells; 0 means tape.DefaultSize.
func WithTapeSize(size int) MachineOption { return tapeSizeOption(size) }

// WithOptimize enables run coalescing and the ClearCell idiom in Load.
func WithOptimize(optimize bool) MachineOption { return optimizeOption(optimize) }

// WithInput sets the source of Read instructions.
func WithInput(r io.Reader) MachineOption { return inputOption{r} }

// WithOutput sets the destination of Write instructions, flushing any prior
// destination.
func WithOutput(w io.Writer) MachineOption { return outputOption{w} }

// WithTee adds another destination for Write instructions.
func WithTee(w io.Writer) MachineOption { return teeOption{w} }

// WithLogger sets the logger; per-step tracing happens only when it has
// debug level enabled.
func WithLogger(log *slog.Logger) MachineOption { return loggerOption{log} }

func (size tapeSizeOption) apply(m *Machine) { m.tapeSize = int(size) }
func (opt optimizeOption) apply(m *Machine)  { m.optimize = bool(opt) }

func (i inputOption) apply(m *Machine) {
	if br, ok := i.Reader.(io.ByteReader); ok {
		m.in = br
	} else {
		m.in = bufio.NewReader(i.Reader)
	}
}

func (o outputOption) apply(m *Machine) {
	if m.out != nil {
		m.out.Flush()
	}
	m.out = flushio.New(o.Writer)
}

func (o teeOption) apply(m *Machine) {
	m.out = flushio.Tee(m.out, flushio.New(o.Writer))
}

func (o loggerOption) apply(m *Machine) {
	m.log = o.Logger
	m.trace = o.Logger.Enabled(context.Background(), slog.LevelDebug)
}

// OutputEncoding selects how Write renders a cell.
type OutputEncoding uint8

const (
	// RawOutput writes each cell as a single byte.
	RawOutput OutputEncoding = iota

	// UTF8Output writes each cell as the code point of the same value.
	UTF8Output
)

// WithOutputEncoding selects how Write renders cells.
func WithOutputEncoding(enc OutputEncoding) MachineOption { return enc }

func (enc OutputEncoding) apply(m *Machine) { m.encoding = enc }

func (enc OutputEncoding) String() string {
	switch enc {
	case RawOutput:
		return "raw"
	case UTF8Output:
		return "utf8"
	}
	return fmt.Sprintf("OutputEncoding(%d)", uint8(enc))
}

func parseOutputEncoding(s string) (OutputEncoding, error) {
	switch s {
	case "", "raw":
		return RawOutput, nil
	case "utf8":
		return UTF8Output, nil
	}
	return 0, fmt.Errorf("invalid output encoding %q, want raw or utf8", s)
}
