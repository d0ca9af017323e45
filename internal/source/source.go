package source

import (
	"fmt"
	"io"
	"os"

	"github.com/jcorbin/gobfi/internal/program"
	"github.com/jcorbin/gobfi/internal/runeio"
)

// Location names a position in a source file; Line and Col count from 1, Col
// in runes.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }

type position struct{ line, col int32 }

// Text is program source reduced to its instruction characters, remembering
// where each one came from.
type Text struct {
	Name string

	// Code holds only the instruction characters, in source order.
	Code []byte

	// Runes counts every rune read, instruction or not.
	Runes int

	pos []position
}

// Location returns where Code[i] was read from.
func (txt *Text) Location(i int) Location {
	if i < 0 || i >= len(txt.pos) {
		return Location{Name: txt.Name}
	}
	p := txt.pos[i]
	return Location{txt.Name, int(p.line), int(p.col)}
}

// ReadFile reads and filters the named file.
func ReadFile(name string) (*Text, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read filters everything but instruction characters out of r. The Text is
// named after r if it has a Name() string method, like *os.File does.
func Read(r io.Reader) (*Text, error) {
	txt := Text{Name: nameOf(r)}
	rr := runeio.NewReader(r)
	line, col := int32(1), int32(0)
	for {
		c, _, err := rr.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%v: %w", Location{txt.Name, int(line), int(col)}, err)
		}
		txt.Runes++
		col++
		if c == '\n' {
			line++
			col = 0
			continue
		}
		if program.IsToken(c) {
			txt.Code = append(txt.Code, byte(c))
			txt.pos = append(txt.pos, position{line, col})
		}
	}
	return &txt, nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
