package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/gobfi/internal/panicerr"
)

// contextCheckSteps is how many instructions runContext executes between
// checks of its context.
const contextCheckSteps = 1 << 12

// runContext is Machine.Run with cancellation checked between steps.
func runContext(ctx context.Context, m *Machine) error {
	if ctx.Done() == nil {
		return m.Run()
	}
	err := panicerr.Recover("machine", func() error {
		for n := 0; !m.HasProgramEnded(); n++ {
			if n%contextCheckSteps == 0 {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("stopped after %v steps: %w", m.Steps(), err)
				}
			}
			if err := m.Step(); err != nil {
				return err
			}
		}
		return nil
	})
	if ferr := m.Flush(); err == nil {
		err = ferr
	}
	return err
}

// stepper runs a machine one instruction at a time, dumping its state after
// each one and waiting for a line of input before continuing. Input ending
// lets the program run to completion.
type stepper struct {
	m *Machine

	// in must be the same reader given to the machine with WithInput, so
	// that confirmation lines and program input share one buffer.
	in *bufio.Reader

	out    io.Writer
	prompt bool
}

func (st stepper) run(ctx context.Context) error {
	err := panicerr.Recover("stepper", func() error {
		for !st.m.HasProgramEnded() {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("stopped after %v steps: %w", st.m.Steps(), err)
			}
			if err := st.m.Step(); err != nil {
				return err
			}
			if err := st.m.Flush(); err != nil {
				return err
			}
			machineDumper{m: st.m, out: st.out}.dump()
			if st.m.HasProgramEnded() {
				break
			}
			if more, err := st.wait(); err != nil {
				return err
			} else if !more {
				return runContext(ctx, st.m)
			}
		}
		return nil
	})
	if ferr := st.m.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (st stepper) wait() (more bool, err error) {
	if st.prompt {
		io.WriteString(st.out, "step> ")
	}
	_, err = st.in.ReadString('\n')
	if err == io.EOF {
		if st.prompt {
			io.WriteString(st.out, "\n")
		}
		return false, nil
	}
	return err == nil, err
}
