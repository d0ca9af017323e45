package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

var discard WriteFlusher = nopFlusher{io.Discard}

// New returns a WriteFlusher around w: in-memory buffers and io.Discard get a
// no-op Flush, writers that already flush are returned as is, anything else
// gets a bufio.Writer.
func New(w io.Writer) WriteFlusher {
	if w == nil || w == io.Discard {
		return discard
	}

	if wf, is := w.(WriteFlusher); is {
		return wf
	}

	// types like bytes.Buffer and strings.Builder hold everything in memory
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// WriteByte writes c to wf, using its io.ByteWriter implementation if any.
func WriteByte(wf io.Writer, c byte) error {
	if bw, ok := wf.(io.ByteWriter); ok {
		return bw.WriteByte(c)
	}
	var buf [1]byte
	buf[0] = c
	_, err := wf.Write(buf[:])
	return err
}
