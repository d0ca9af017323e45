package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/gobfi/internal/runeio"
)

const dumpCells = 32

type machineDumper struct {
	m   *Machine
	out io.Writer

	cells int
}

func (dump machineDumper) dump() {
	if dump.cells == 0 {
		dump.cells = dumpCells
	}
	dump.dumpTape()
	dump.dumpDP()
	dump.dumpIP()
}

func (dump machineDumper) dumpTape() {
	var sb strings.Builder
	sb.WriteString("Tape: [")
	for i, c := range dump.m.tape.Head(dump.cells) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", c)
	}
	sb.WriteString("]\n")
	io.WriteString(dump.out, sb.String())
}

func (dump machineDumper) dumpDP() {
	c := dump.m.tape.Load(dump.m.dp)
	fmt.Fprintf(dump.out, "DP: %v = %v %v\n", dump.m.dp, c, runeio.Describe(c))
}

func (dump machineDumper) dumpIP() {
	if dump.m.HasProgramEnded() {
		fmt.Fprintf(dump.out, "IP: %v end\n", dump.m.ip)
	} else {
		fmt.Fprintf(dump.out, "IP: %v %v\n", dump.m.ip, dump.m.prog[dump.m.ip])
	}
}
