package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcorbin/gobfi/internal/panicerr"
	"github.com/jcorbin/gobfi/internal/program"
	"github.com/jcorbin/gobfi/internal/tape"
)

//// Environment

// Machine runs a program against a tape of byte cells. It has two pointers:
// the instruction pointer into the program, and the data pointer into the
// tape. Both start at 0.
type Machine struct {
	ioCore

	optimize bool
	tapeSize int

	prog program.Program
	ip   uint // instruction pointer

	tape *tape.Tape
	dp   uint // data pointer

	steps uint64
}

// New creates a Machine with an empty program.
func New(opts ...MachineOption) *Machine {
	var m Machine
	defaultOptions.apply(&m)
	MachineOptions(opts...).apply(&m)
	m.tape = tape.New(m.tapeSize)
	return &m
}

// Load encodes and resolves filtered source, making the machine ready to run.
// A machine may only be loaded once.
func (m *Machine) Load(src []byte) error {
	if m.prog != nil {
		return errLoaded
	}
	prog, err := program.Load(src, m.optimize)
	if err != nil {
		return err
	}
	if prog == nil {
		prog = program.Program{}
	}
	m.prog = prog
	return nil
}

// LoadProgram makes the machine ready to run an already encoded program as
// is; any loop instruction left unresolved fails with ErrMissingJumpTarget
// once executed. The machine takes ownership of prog.
func (m *Machine) LoadProgram(prog program.Program) error {
	if m.prog != nil {
		return errLoaded
	}
	if prog == nil {
		prog = program.Program{}
	}
	m.prog = prog
	return nil
}

// Program returns the loaded program; callers must not modify it.
func (m *Machine) Program() program.Program { return m.prog }

// IP returns the instruction pointer.
func (m *Machine) IP() uint { return m.ip }

// DP returns the data pointer.
func (m *Machine) DP() uint { return m.dp }

// Steps returns how many instructions have been executed.
func (m *Machine) Steps() uint64 { return m.steps }

// Tape returns the machine's tape.
func (m *Machine) Tape() *tape.Tape { return m.tape }

// Reset rewinds both pointers and zeroes the tape, keeping the program.
func (m *Machine) Reset() {
	m.ip, m.dp, m.steps = 0, 0, 0
	m.tape.Reset()
}

//// Execution

// HasProgramEnded is true once the instruction pointer has run off the end
// of the program; it never wraps.
func (m *Machine) HasProgramEnded() bool {
	return m.ip >= uint(len(m.prog))
}

// Run steps until the program ends or an instruction fails, then flushes
// output. Any panic is returned as an error.
func (m *Machine) Run() error {
	err := panicerr.Recover("machine", m.run)
	if ferr := m.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (m *Machine) run() error {
	for m.ip < uint(len(m.prog)) {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes exactly one instruction. On error the instruction pointer is
// left at the failed instruction.
func (m *Machine) Step() error {
	if m.HasProgramEnded() {
		return ErrProgramEnded
	}

	in := m.prog[m.ip]
	cell := m.tape.Load(m.dp)
	if m.trace {
		m.log.LogAttrs(context.Background(), slog.LevelDebug, "step",
			slog.Uint64("ip", uint64(m.ip)),
			slog.String("op", in.String()),
			slog.Uint64("dp", uint64(m.dp)),
			slog.Int("cell", int(cell)))
	}
	m.steps++

	switch in.Op {

	// Symbol  Instruction   Function
	//   >     MoveRight(n)  move the data pointer n cells right, wrapping
	//   <     MoveLeft(n)   move the data pointer n cells left, wrapping
	case program.MoveRight:
		m.dp = m.tape.Move(m.dp, in.Arg)
	case program.MoveLeft:
		m.dp = m.tape.Move(m.dp, -in.Arg)

	// Symbol  Instruction   Function
	//   +     Increment(n)  add n to the current cell, modulo 256
	//   -     Decrement(n)  subtract n from the current cell, modulo 256
	//  [-]    ClearCell     zero the current cell
	case program.Increment:
		m.tape.Add(m.dp, in.Arg)
	case program.Decrement:
		m.tape.Add(m.dp, -in.Arg)
	case program.ClearCell:
		m.tape.Stor(m.dp, 0)

	// Symbol  Instruction   Function
	//   [     LoopStart(t)  if the current cell is 0, jump to t
	//   ]     LoopEnd(t)    if the current cell is not 0, jump to t
	case program.LoopStart:
		if in.Arg < 0 {
			return m.fault(in, ErrMissingJumpTarget)
		}
		if cell == 0 {
			m.ip = uint(in.Arg)
			return nil
		}
	case program.LoopEnd:
		if in.Arg < 0 {
			return m.fault(in, ErrMissingJumpTarget)
		}
		if cell != 0 {
			m.ip = uint(in.Arg)
			return nil
		}

	// Symbol  Instruction   Function
	//   ,     Read          set the current cell to the next input byte
	//   .     Write         write the current cell to output
	case program.Read:
		c, err := m.readByte()
		if err != nil {
			return m.fault(in, err)
		}
		m.tape.Stor(m.dp, c)
	case program.Write:
		if err := m.writeCell(cell); err != nil {
			return m.fault(in, err)
		}

	default:
		return m.fault(in, errInvalidOp)
	}

	m.ip++
	return nil
}

func (m *Machine) fault(in program.Instruction, err error) error {
	if ferr := m.out.Flush(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	return RuntimeError{IP: m.ip, Instruction: in, Err: err}
}
