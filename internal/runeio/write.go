package runeio

import (
	"io"
	"unicode/utf8"
)

// WriteCellRune writes c as the unicode code point of the same value:
// ASCII is written as the single byte, U+0080 through U+00FF in their two
// byte utf8 form.
func WriteCellRune(w io.Writer, c byte) (n int, err error) {
	if c < utf8.RuneSelf {
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(c)
		}
		return w.Write([]byte{c})
	}
	var buf [2]byte
	n = utf8.EncodeRune(buf[:], rune(c))
	return w.Write(buf[:n])
}
