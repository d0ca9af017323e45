package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

// Test_Machine_optimizeEquivalence runs random programs with and without
// coalescing, expecting the same output, tape, and data pointer.
func Test_Machine_optimizeEquivalence(t *testing.T) {
	const (
		numPrograms = 200
		stepLimit   = 20000
	)

	rng := rand.New(rand.NewSource(0x6f626669))
	input := make([]byte, 64)
	rng.Read(input)

	eg, ctx := errgroup.WithContext(context.Background())
	eg.SetLimit(8)
	var compared int64
	results := make(chan bool, numPrograms)
	for i := 0; i < numPrograms; i++ {
		src := randomProgram(rng, 4, 40)
		eg.Go(func() error {
			plain, err := runLimited(ctx, src, false, input, stepLimit)
			if err != nil {
				return err
			}
			if !plain.done {
				results <- false
				return nil
			}
			opt, err := runLimited(ctx, src, true, input, stepLimit)
			if err != nil {
				return err
			}
			if !opt.done {
				return fmt.Errorf("optimized %q did not finish within plain's step budget", src)
			}
			if !plain.equal(opt) {
				return fmt.Errorf("program %q diverged:\nplain: %+v\noptimized: %+v", src, plain, opt)
			}
			results <- true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	close(results)
	for ok := range results {
		if ok {
			compared++
		}
	}
	assert.Greater(t, compared, int64(0), "expected some random programs to finish")
}

type runResult struct {
	done   bool
	out    string
	head   []byte
	dp     uint
	errMsg string
}

func (rr runResult) equal(other runResult) bool {
	return rr.out == other.out &&
		bytes.Equal(rr.head, other.head) &&
		rr.dp == other.dp &&
		rr.errMsg == other.errMsg
}

func runLimited(ctx context.Context, src string, optimize bool, input []byte, limit int) (rr runResult, _ error) {
	var out strings.Builder
	m := New(
		WithTapeSize(64),
		WithOptimize(optimize),
		WithInput(bytes.NewReader(input)),
		WithOutput(&out),
	)
	if err := m.Load([]byte(src)); err != nil {
		return rr, err
	}
	var err error
	for n := 0; n < limit && !m.HasProgramEnded(); n++ {
		if n%1024 == 0 && ctx.Err() != nil {
			return rr, ctx.Err()
		}
		if err = m.Step(); err != nil {
			break
		}
	}
	if err != nil {
		var rerr RuntimeError
		if !errors.As(err, &rerr) {
			return rr, err
		}
		rr.errMsg = rerr.Err.Error()
		rr.done = true
	} else {
		rr.done = m.HasProgramEnded()
	}
	m.Flush()
	rr.out = out.String()
	rr.head = m.Tape().Head(64)
	rr.dp = m.DP()
	return rr, nil
}

// randomProgram generates a balanced program of up to n tokens per loop
// body, nesting loops no deeper than depth.
func randomProgram(rng *rand.Rand, depth, n int) string {
	var sb strings.Builder
	var gen func(depth int)
	gen = func(depth int) {
		for i, m := 0, 1+rng.Intn(n); i < m; i++ {
			switch r := rng.Intn(20); {
			case r < 4:
				sb.WriteString(strings.Repeat("+", 1+rng.Intn(5)))
			case r < 7:
				sb.WriteString(strings.Repeat("-", 1+rng.Intn(5)))
			case r < 10:
				sb.WriteString(strings.Repeat(">", 1+rng.Intn(3)))
			case r < 13:
				sb.WriteString(strings.Repeat("<", 1+rng.Intn(3)))
			case r < 15:
				sb.WriteByte('.')
			case r < 16:
				sb.WriteByte(',')
			case r < 17:
				sb.WriteString("[-]")
			default:
				if depth > 0 {
					sb.WriteByte('[')
					gen(depth - 1)
					sb.WriteString("-]")
				}
			}
		}
	}
	gen(depth)
	return sb.String()
}
