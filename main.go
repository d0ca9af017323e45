package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jcorbin/gobfi/internal/logio"
	"github.com/jcorbin/gobfi/internal/program"
	"github.com/jcorbin/gobfi/internal/source"
)

func main() {
	cmd := newCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errLogged) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}

// errLogged marks a run failure that has already been logged.
var errLogged = errors.New("errors logged")

type command struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	optimize   bool
	step       bool
	emit       string
	emitFormat string
	compiled   bool
	verbose    bool
	trace      bool
	logFile    string
	tapeSize   int
	output     string
	tee        string
	timeout    time.Duration
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := command{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "gobfi [flags] FILE",
		Short: "Run a brainfuck program",
		Long: `Runs the program in FILE against a tape of byte cells, reading program
input from stdin and writing program output to stdout.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          c.run,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&c.optimize, "optimize", "o", false, "coalesce instruction runs and the [-] idiom")
	flags.BoolVarP(&c.step, "step", "s", false, "dump state after every instruction and wait for a line on stdin")
	flags.StringVarP(&c.emit, "emit", "e", "", "write the loaded program to `FILE`")
	flags.StringVar(&c.emitFormat, "emit-format", "text", "emitted program format: text or cbor")
	flags.BoolVar(&c.compiled, "compiled", false, "FILE is a cbor program image")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log load progress and program sizes")
	flags.BoolVar(&c.trace, "trace", false, "log every executed instruction")
	flags.StringVar(&c.logFile, "log-file", "", "also write JSON log records to `FILE`")
	flags.IntVar(&c.tapeSize, "tape-size", 0, "number of tape cells (default 30000)")
	flags.StringVar(&c.output, "output", "raw", "output encoding: raw or utf8")
	flags.StringVar(&c.tee, "tee", "", "also copy program output to `FILE`")
	flags.StringVar(&c.configPath, "config", "", "read defaults from TOML `FILE` (default ./gobfi.toml)")
	flags.DurationVar(&c.timeout, "timeout", 0, "stop the program after `DURATION`")
	return cmd
}

// applyConfig fills in any flag not set on the command line from cfg.
func (c *command) applyConfig(cmd *cobra.Command, cfg Config) {
	flags := cmd.Flags()
	if !flags.Changed("optimize") {
		c.optimize = cfg.Optimize
	}
	if !flags.Changed("tape-size") {
		c.tapeSize = cfg.TapeSize
	}
	if !flags.Changed("output") && cfg.Output != "" {
		c.output = cfg.Output
	}
	if !flags.Changed("log-file") {
		c.logFile = cfg.Log.File
	}
}

func (c *command) logLevel(cfg Config) slog.Level {
	level, _ := cfg.Log.level()
	if c.verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	if c.trace {
		level = slog.LevelDebug
	}
	return level
}

func (c *command) run(cmd *cobra.Command, args []string) (rerr error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.applyConfig(cmd, cfg)

	if c.tapeSize < 0 {
		return fmt.Errorf("invalid tape size %v", c.tapeSize)
	}
	encoding, err := parseOutputEncoding(c.output)
	if err != nil {
		return err
	}
	switch c.emitFormat {
	case "text", "cbor":
	default:
		return fmt.Errorf("invalid emit format %q, want text or cbor", c.emitFormat)
	}

	var logOpts logio.Options
	logOpts.Level = c.logLevel(cfg)
	if c.logFile != "" {
		f, err := openLogFile(c.logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOpts.JSON = f
	}
	log := logio.New(c.stderr, logOpts)
	if cfg.Path != "" {
		log.Info("loaded config", "path", cfg.Path)
	}

	name := args[0]
	var (
		txt *source.Text
		img program.Program
	)
	if c.compiled {
		img, err = readImage(name, log)
	} else {
		txt, err = readSource(name, log)
	}
	if err != nil {
		return err
	}

	stdin := bufio.NewReader(c.stdin)
	opts := []MachineOption{
		WithTapeSize(c.tapeSize),
		WithOptimize(c.optimize),
		WithInput(stdin),
		WithOutput(c.stdout),
		WithOutputEncoding(encoding),
		WithLogger(log.Logger),
	}
	if c.tee != "" {
		f, err := os.Create(c.tee)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); rerr == nil {
				rerr = cerr
			}
		}()
		opts = append(opts, WithTee(f))
	}
	m := New(opts...)

	if c.compiled {
		err = m.LoadProgram(img)
	} else {
		err = c.loadSource(m, txt, log)
	}
	if err != nil {
		return err
	}

	if c.emit != "" {
		if err := c.emitProgram(m.Program()); err != nil {
			return err
		}
		log.Info("emitted program", "file", c.emit, "format", c.emitFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.step {
		err = stepper{
			m:      m,
			in:     stdin,
			out:    c.stderr,
			prompt: isTerminal(c.stdin),
		}.run(ctx)
	} else {
		err = runContext(ctx, m)
	}
	log.Info("halted", "steps", m.Steps(), "ip", m.IP(), "dp", m.DP())
	log.ErrorIf(err, "run failed", "file", name)
	if err != nil && log.ExitCode() != 0 {
		return fmt.Errorf("%w: %w", errLogged, err)
	}
	return err
}

func readSource(name string, log *logio.Logger) (*source.Text, error) {
	txt, err := source.ReadFile(name)
	if err != nil {
		return nil, err
	}
	log.Info("read source", "file", txt.Name, "runes", txt.Runes, "tokens", len(txt.Code))
	return txt, nil
}

func (c *command) loadSource(m *Machine, txt *source.Text, log *logio.Logger) error {
	if err := m.Load(txt.Code); err != nil {
		var lerr program.LoadError
		if errors.As(err, &lerr) && lerr.Offset >= 0 {
			return fmt.Errorf("%v: %w", txt.Location(lerr.Offset), err)
		}
		return fmt.Errorf("%v: %w", txt.Name, err)
	}
	log.Info("loaded program",
		"tokens", len(txt.Code),
		"instructions", len(m.Program()),
		"optimize", c.optimize)
	return nil
}

func readImage(name string, log *logio.Logger) (program.Program, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := program.ReadImage(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	log.Info("loaded program image", "file", name, "instructions", len(prog))
	return prog, nil
}

func (c *command) emitProgram(prog program.Program) (rerr error) {
	f, err := os.Create(c.emit)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); rerr == nil {
			rerr = cerr
		}
	}()
	if c.emitFormat == "cbor" {
		return prog.WriteImage(f)
	}
	return prog.WriteText(f)
}

func isTerminal(r io.Reader) bool {
	if f, ok := r.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
