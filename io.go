package main

import (
	"io"
	"log/slog"

	"github.com/jcorbin/gobfi/internal/flushio"
	"github.com/jcorbin/gobfi/internal/runeio"
)

type ioCore struct {
	in       io.ByteReader
	out      flushio.WriteFlusher
	encoding OutputEncoding

	log   *slog.Logger
	trace bool
}

// Flush writes out any buffered program output.
func (ioc *ioCore) Flush() error { return ioc.out.Flush() }

// readByte flushes output first, so that any prompt written by the program
// is visible before blocking on input.
func (ioc *ioCore) readByte() (byte, error) {
	if err := ioc.out.Flush(); err != nil {
		return 0, err
	}
	c, err := ioc.in.ReadByte()
	if err == io.EOF {
		return 0, ErrInputExhausted
	}
	return c, err
}

func (ioc *ioCore) writeCell(c byte) (err error) {
	switch ioc.encoding {
	case UTF8Output:
		_, err = runeio.WriteCellRune(ioc.out, c)
	default:
		err = flushio.WriteByte(ioc.out, c)
	}
	return err
}
