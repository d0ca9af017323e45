package program

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalancedLoops indicates a loop bracket without a matching partner.
	ErrUnbalancedLoops = errors.New("unbalanced loops")

	// ErrUnknownToken indicates a character outside the instruction set
	// reached the encoder; source text must be filtered first.
	ErrUnknownToken = errors.New("unknown token")
)

// LoadError locates a load failure. Offset is the position in the encoded
// source, Index is the position in the program; either is -1 when not known.
type LoadError struct {
	Offset int
	Index  int
	Token  byte
	Err    error
}

func (err LoadError) Error() string {
	var loc string
	switch {
	case err.Offset >= 0:
		loc = fmt.Sprintf("@%v", err.Offset)
	case err.Index >= 0:
		loc = fmt.Sprintf("instruction %v", err.Index)
	}
	if err.Err == ErrUnknownToken {
		return fmt.Sprintf("%v %q %v", err.Err, rune(err.Token), loc)
	}
	return fmt.Sprintf("%v %v", err.Err, loc)
}

func (err LoadError) Unwrap() error { return err.Err }
