package program

// Resolve patches every LoopStart and LoopEnd with the index execution
// continues at when its branch is not taken: just past the matching LoopEnd
// for a LoopStart, just past the matching LoopStart for a LoopEnd.
//
// Matching is a single forward pass over a stack of open loop indices.
// Targets only depend on bracket structure, so resolving an already resolved
// program changes nothing. The program is left untouched on error.
func (prog Program) Resolve() error {
	var (
		open    = make([]int, 0, 16)
		targets = make([]int, len(prog))
	)
	for i, in := range prog {
		switch in.Op {
		case LoopStart:
			open = append(open, i)
		case LoopEnd:
			if len(open) == 0 {
				return LoadError{Offset: -1, Index: i, Err: ErrUnbalancedLoops}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			targets[start] = i + 1
			targets[i] = start + 1
		}
	}
	if i := len(open) - 1; i >= 0 {
		// report the innermost unclosed loop
		return LoadError{Offset: -1, Index: open[i], Err: ErrUnbalancedLoops}
	}

	for i := range prog {
		switch prog[i].Op {
		case LoopStart, LoopEnd:
			prog[i].Arg = targets[i]
		}
	}
	return nil
}

// Resolved reports whether every loop instruction carries a jump target.
func (prog Program) Resolved() bool {
	for _, in := range prog {
		if (in.Op == LoopStart || in.Op == LoopEnd) && in.Arg == Unresolved {
			return false
		}
	}
	return true
}
