package program

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// WriteText writes one instruction per line in its String form.
func (prog Program) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, in := range prog {
		bw.WriteString(in.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

const imageVersion = 1

type image struct {
	Version int               `cbor:"1,keyasint"`
	Code    []wireInstruction `cbor:"2,keyasint"`
}

type wireInstruction struct {
	_   struct{} `cbor:",toarray"`
	Op  Op
	Arg int
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	imageEncMode = em
}

// WriteImage writes the program as a CBOR image that ReadImage can load
// without re-reading source.
func (prog Program) WriteImage(w io.Writer) error {
	img := image{
		Version: imageVersion,
		Code:    make([]wireInstruction, len(prog)),
	}
	for i, in := range prog {
		img.Code[i].Op = in.Op
		img.Code[i].Arg = in.Arg
	}
	return imageEncMode.NewEncoder(w).Encode(img)
}

// ReadImage loads a program written by WriteImage. Jump targets are
// recomputed rather than trusted, so a tampered image either resolves to the
// same program structure or fails with ErrUnbalancedLoops.
func ReadImage(r io.Reader) (Program, error) {
	var img image
	if err := cbor.NewDecoder(r).Decode(&img); err != nil {
		return nil, fmt.Errorf("invalid program image: %w", err)
	}
	if img.Version != imageVersion {
		return nil, fmt.Errorf("unsupported program image version %v", img.Version)
	}

	prog := make(Program, len(img.Code))
	for i, wi := range img.Code {
		if int(wi.Op) >= len(opNames) {
			return nil, fmt.Errorf("invalid program image: %v @%v", wi.Op, i)
		}
		switch wi.Op {
		case MoveRight, MoveLeft, Increment, Decrement:
			if wi.Arg < 1 {
				return nil, fmt.Errorf("invalid program image: %v(%d) @%v", wi.Op, wi.Arg, i)
			}
		}
		prog[i] = Instruction{wi.Op, wi.Arg}
	}
	if err := prog.Resolve(); err != nil {
		return nil, err
	}
	return prog, nil
}
