package program_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/jcorbin/gobfi/internal/program"
)

func Test_Encode(t *testing.T) {
	for _, tc := range []struct {
		name     string
		src      string
		optimize bool
		expect   Program
	}{
		{
			name:   "empty",
			src:    "",
			expect: Program{},
		},
		{
			name: "plain",
			src:  "++>-<.,",
			expect: Program{
				{Increment, 1}, {Increment, 1},
				{MoveRight, 1},
				{Decrement, 1},
				{MoveLeft, 1},
				{Write, 0},
				{Read, 0},
			},
		},
		{
			name: "plain keeps clear idiom as a loop",
			src:  "[-]",
			expect: Program{
				{LoopStart, Unresolved},
				{Decrement, 1},
				{LoopEnd, Unresolved},
			},
		},
		{
			name:     "runs coalesce",
			src:      "+++>>--<<<<..",
			optimize: true,
			expect: Program{
				{Increment, 3},
				{MoveRight, 2},
				{Decrement, 2},
				{MoveLeft, 4},
				{Write, 0},
				{Write, 0},
			},
		},
		{
			name:     "alternating runs stay apart",
			src:      "+-+-",
			optimize: true,
			expect: Program{
				{Increment, 1}, {Decrement, 1},
				{Increment, 1}, {Decrement, 1},
			},
		},
		{
			name:     "clear idiom",
			src:      "+++++[-].",
			optimize: true,
			expect: Program{
				{Increment, 5},
				{ClearCell, 0},
				{Write, 0},
			},
		},
		{
			name:     "not quite the clear idiom",
			src:      "[--]",
			optimize: true,
			expect: Program{
				{LoopStart, Unresolved},
				{Decrement, 2},
				{LoopEnd, Unresolved},
			},
		},
		{
			name:     "truncated idiom at end of source",
			src:      "[-",
			optimize: true,
			expect: Program{
				{LoopStart, Unresolved},
				{Decrement, 1},
			},
		},
		{
			name:     "long runs are not truncated",
			src:      strings.Repeat("+", 300),
			optimize: true,
			expect:   Program{{Increment, 300}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Encode([]byte(tc.src), tc.optimize)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, prog)
		})
	}
}

func Test_Encode_unknownToken(t *testing.T) {
	_, err := Encode([]byte("++x"), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownToken), "expected ErrUnknownToken, got %v", err)

	var le LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Offset)
	assert.Equal(t, byte('x'), le.Token)
	assert.EqualError(t, err, `unknown token 'x' @2`)
}

func Test_Resolve(t *testing.T) {
	for _, tc := range []struct {
		name   string
		src    string
		expect []string
	}{
		{"empty loop", "[]", []string{"LoopStart(2)", "LoopEnd(1)"}},
		{"nested", "[[]]", []string{
			"LoopStart(4)", "LoopStart(3)", "LoopEnd(2)", "LoopEnd(1)",
		}},
		{"siblings", "[.][,]", []string{
			"LoopStart(3)", "Write", "LoopEnd(1)",
			"LoopStart(6)", "Read", "LoopEnd(4)",
		}},
		{"multiply", "++++++++[>++++++++<-]>.", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Encode([]byte(tc.src), false)
			require.NoError(t, err)
			require.False(t, prog.Resolved() && len(tc.src) > 0, "expected unresolved loops")

			require.NoError(t, prog.Resolve())
			require.True(t, prog.Resolved())
			if tc.expect != nil {
				var strs []string
				for _, in := range prog {
					strs = append(strs, in.String())
				}
				assert.Equal(t, tc.expect, strs)
			}

			// every pair points just past its partner
			for i, in := range prog {
				switch in.Op {
				case LoopStart:
					end := in.Arg - 1
					require.Equal(t, LoopEnd, prog[end].Op, "LoopStart @%v target", i)
					assert.Equal(t, i+1, prog[end].Arg, "LoopEnd @%v target", end)
				case LoopEnd:
					start := in.Arg - 1
					require.Equal(t, LoopStart, prog[start].Op, "LoopEnd @%v target", i)
				}
			}

			again := prog.Clone()
			require.NoError(t, again.Resolve())
			assert.Equal(t, prog, again, "expected resolve to be idempotent")
		})
	}
}

func Test_Resolve_unbalanced(t *testing.T) {
	for _, tc := range []struct {
		src    string
		offset int
	}{
		{"]", 0},
		{"[", 0},
		{"+[[-]", 1},
		{"[]]", 2},
		{"][", 0},
		{"+++[>++<-]>>]", 12},
	} {
		for _, optimize := range []bool{false, true} {
			_, err := Load([]byte(tc.src), optimize)
			require.Error(t, err, "expected %q to not load", tc.src)
			assert.True(t, errors.Is(err, ErrUnbalancedLoops), "expected ErrUnbalancedLoops, got %v", err)
			var le LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.offset, le.Offset, "expected %q error offset", tc.src)
		}
	}
}

func Test_Resolve_leavesProgramOnError(t *testing.T) {
	prog, err := Encode([]byte("[]]"), false)
	require.NoError(t, err)
	before := prog.Clone()
	require.Error(t, prog.Resolve())
	assert.Equal(t, before, prog)
}

func Test_WriteText(t *testing.T) {
	prog, err := Load([]byte("+++++[->>+<<]>>[-]."), true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, prog.WriteText(&buf))
	assert.Equal(t, strings.Join([]string{
		"Increment(5)",
		"LoopStart(7)",
		"Decrement(1)",
		"MoveRight(2)",
		"Increment(1)",
		"MoveLeft(2)",
		"LoopEnd(2)",
		"MoveRight(2)",
		"ClearCell",
		"Write",
	}, "\n")+"\n", buf.String())
}

func Test_Image(t *testing.T) {
	prog, err := Load([]byte("++++++++[>++++++++<-]>.,[-]"), true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, prog.WriteImage(&buf))
	loaded, err := ReadImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, prog, loaded)

	t.Run("bad targets are recomputed", func(t *testing.T) {
		bad := prog.Clone()
		bad[1].Arg = 0
		buf.Reset()
		require.NoError(t, bad.WriteImage(&buf))
		loaded, err := ReadImage(&buf)
		require.NoError(t, err)
		assert.Equal(t, prog, loaded)
	})

	t.Run("unbalanced", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, Program{{LoopEnd, 1}}.WriteImage(&buf))
		_, err := ReadImage(&buf)
		assert.True(t, errors.Is(err, ErrUnbalancedLoops), "expected ErrUnbalancedLoops, got %v", err)
	})

	t.Run("zero run length", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, Program{{Increment, 0}}.WriteImage(&buf))
		_, err := ReadImage(&buf)
		assert.EqualError(t, err, "invalid program image: Increment(0) @0")
	})

	t.Run("version", func(t *testing.T) {
		b, err := cbor.Marshal(map[int]int{1: 99})
		require.NoError(t, err)
		_, err = ReadImage(bytes.NewReader(b))
		assert.EqualError(t, err, "unsupported program image version 99")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ReadImage(strings.NewReader("not cbor"))
		assert.Error(t, err)
	})
}
