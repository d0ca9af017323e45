package tape

import "fmt"

// DefaultSize provides a default for New.
const DefaultSize = 30000

// Tape implements a fixed-size memory of byte cells. Positions wrap around
// both ends, so every position is valid for a non-empty tape.
type Tape struct {
	cells []byte
}

// New returns a zeroed tape of size cells, or of DefaultSize if size is 0.
func New(size int) *Tape {
	if size <= 0 {
		size = DefaultSize
	}
	return &Tape{cells: make([]byte, size)}
}

// Size returns the number of cells.
func (t *Tape) Size() int { return len(t.cells) }

// Load returns the value at pos.
func (t *Tape) Load(pos uint) byte { return t.cells[pos] }

// Stor sets the value at pos.
func (t *Tape) Stor(pos uint, val byte) { t.cells[pos] = val }

// Add adds delta to the cell at pos, wrapping modulo 256.
func (t *Tape) Add(pos uint, delta int) { t.cells[pos] += byte(delta) }

// Move returns the position delta cells away from pos, wrapping around
// either end of the tape.
func (t *Tape) Move(pos uint, delta int) uint {
	size := len(t.cells)
	off := delta % size
	if off < 0 {
		off += size
	}
	return uint((int(pos) + off) % size)
}

// Head returns a copy of up to n cells from the start of the tape.
func (t *Tape) Head(n int) []byte {
	if n > len(t.cells) {
		n = len(t.cells)
	}
	return append([]byte(nil), t.cells[:n]...)
}

// Reset zeroes every cell.
func (t *Tape) Reset() {
	for i := range t.cells {
		t.cells[i] = 0
	}
}

func (t *Tape) String() string {
	return fmt.Sprintf("tape[%v]", len(t.cells))
}
