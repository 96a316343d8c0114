package vm

import (
	"iter"
)

// Link is a label reference to patch once every label is known.
type Link struct {
	Offset int    // Offset into the line's bytes.
	Width  int    // Width of the patched value.
	Label  string // Label name.
}

// Line is the bytecode assembled from one line of source.
type Line struct {
	LineNo int
	Addr   int
	Words  []string
	Bytes  []byte
	Links  []Link
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

// Debug returns the listing line holding addr, or nil.
func (prog *Program) Debug(addr uint32) (line *Line) {
	for n, ln := range prog.Lines {
		if int(addr) >= ln.Addr && int(addr) < ln.Addr+len(ln.Bytes) {
			line = &prog.Lines[n]
			break
		}
	}

	return
}

// LineNo of the source line that assembled addr, or zero.
func (prog *Program) LineNo(addr uint32) int {
	line := prog.Debug(addr)
	if line == nil {
		return 0
	}
	return line.LineNo
}

// Binary is the program image.
func (prog *Program) Binary() (code []byte) {
	for _, data := range prog.Bytes() {
		code = append(code, data)
	}

	return
}

// Bytes iterates over every address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[uint32, byte] {
	return func(yield func(addr uint32, data byte) bool) {
		for _, line := range prog.Lines {
			for n, data := range line.Bytes {
				if !yield(uint32(line.Addr+n), data) {
					return
				}
			}
		}
	}
}
