package program

// Encode converts filtered source into a program with unresolved loops.
//
// With optimize set, runs of identical motion or arithmetic tokens collapse
// into one instruction carrying the run length, and the literal "[-]" becomes
// a single ClearCell. Without it every token is one instruction with a count
// of 1.
func Encode(src []byte, optimize bool) (Program, error) {
	var enc encoder
	return enc.encode(src, optimize)
}

// Load encodes and resolves src in one go. Any LoadError returned carries
// the source offset of the offending token.
func Load(src []byte, optimize bool) (Program, error) {
	var enc encoder
	prog, err := enc.encode(src, optimize)
	if err != nil {
		return nil, err
	}
	if err := prog.Resolve(); err != nil {
		if le, ok := err.(LoadError); ok && le.Index >= 0 && le.Index < len(enc.offsets) {
			le.Offset = enc.offsets[le.Index]
			err = le
		}
		return nil, err
	}
	return prog, nil
}

type encoder struct {
	prog    Program
	offsets []int
}

func (enc *encoder) emit(offset int, op Op, arg int) {
	enc.prog = append(enc.prog, Instruction{op, arg})
	enc.offsets = append(enc.offsets, offset)
}

func (enc *encoder) encode(src []byte, optimize bool) (Program, error) {
	enc.prog = make(Program, 0, len(src))
	enc.offsets = make([]int, 0, len(src))

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '>', '<', '+', '-':
			n := 1
			if optimize {
				for i+n < len(src) && src[i+n] == c {
					n++
				}
			}
			enc.emit(i, arithOp(c), n)
			i += n

		case '[':
			if optimize && i+2 < len(src) && src[i+1] == '-' && src[i+2] == ']' {
				enc.emit(i, ClearCell, 0)
				i += 3
				continue
			}
			enc.emit(i, LoopStart, Unresolved)
			i++

		case ']':
			enc.emit(i, LoopEnd, Unresolved)
			i++

		case ',':
			enc.emit(i, Read, 0)
			i++

		case '.':
			enc.emit(i, Write, 0)
			i++

		default:
			return nil, LoadError{Offset: i, Index: -1, Token: c, Err: ErrUnknownToken}
		}
	}

	return enc.prog, nil
}

func arithOp(c byte) Op {
	switch c {
	case '>':
		return MoveRight
	case '<':
		return MoveLeft
	case '+':
		return Increment
	default:
		return Decrement
	}
}

// IsToken reports whether c is one of the eight instruction characters.
func IsToken(c rune) bool {
	switch c {
	case '>', '<', '+', '-', '[', ']', ',', '.':
		return true
	}
	return false
}
