package program

import "fmt"

// Op identifies the kind of an Instruction.
type Op uint8

// The closed set of instruction kinds.
const (
	MoveRight Op = iota
	MoveLeft
	Increment
	Decrement
	ClearCell
	LoopStart
	LoopEnd
	Read
	Write
)

var opNames = [...]string{
	MoveRight: "MoveRight",
	MoveLeft:  "MoveLeft",
	Increment: "Increment",
	Decrement: "Decrement",
	ClearCell: "ClearCell",
	LoopStart: "LoopStart",
	LoopEnd:   "LoopEnd",
	Read:      "Read",
	Write:     "Write",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Unresolved is the Arg of a LoopStart or LoopEnd that has not been through
// Resolve yet.
const Unresolved = -1

// Instruction is a single program instruction. Arg holds the run length for
// the motion and arithmetic kinds, the jump target for the loop kinds, and is
// zero otherwise.
type Instruction struct {
	Op  Op
	Arg int
}

func (in Instruction) String() string {
	switch in.Op {
	case MoveRight, MoveLeft, Increment, Decrement:
		return fmt.Sprintf("%v(%d)", in.Op, in.Arg)
	case LoopStart, LoopEnd:
		if in.Arg == Unresolved {
			return fmt.Sprintf("%v(?)", in.Op)
		}
		return fmt.Sprintf("%v(%d)", in.Op, in.Arg)
	default:
		return in.Op.String()
	}
}

// Program is a sequence of instructions, ready to run once resolved.
type Program []Instruction

// Clone returns a copy of the program that shares no storage.
func (prog Program) Clone() Program {
	return append(Program(nil), prog...)
}
