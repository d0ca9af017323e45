package main

import (
	"errors"
	"fmt"

	"github.com/jcorbin/gobfi/internal/program"
)

var (
	// ErrInputExhausted is the cause of a failed Read when no input remains.
	ErrInputExhausted = errors.New("input exhausted")

	// ErrMissingJumpTarget is the cause of executing a loop instruction that
	// was never resolved.
	ErrMissingJumpTarget = errors.New("missing jump target")

	// ErrProgramEnded is returned by Step once HasProgramEnded.
	ErrProgramEnded = errors.New("program ended")

	errLoaded    = errors.New("machine already loaded")
	errInvalidOp = errors.New("invalid instruction")
)

// RuntimeError is a fatal failure while executing the instruction at IP.
type RuntimeError struct {
	IP          uint
	Instruction program.Instruction
	Err         error
}

func (err RuntimeError) Error() string {
	return fmt.Sprintf("%v @%v: %v", err.Instruction, err.IP, err.Err)
}

func (err RuntimeError) Unwrap() error { return err.Err }
