// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MACRO_DEPTH limits nested macro expansion.
const MACRO_DEPTH = 16

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler producing VM bytecode.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of assembled lines.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	depth  int // Macro expansion depth.
	expand int // Count of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value
	}

	return
}

// charValue decodes a quoted character literal.
func charValue(word string) (value uint32, err error) {
	text, err := strconv.Unquote(word)
	if err != nil || len(text) != 1 {
		err = ErrParseNumber(word)
		return
	}
	value = uint32(text[0])
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value32))
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// splitWords breaks a line into words at spaces and commas, stopping at a
// ';' comment. Quoted text and $(...) expressions are kept whole.
func splitWords(line string) (words []string, err error) {
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for n := 0; n < len(line); n++ {
		c := line[n]
		switch {
		case c == ';':
			flush()
			return
		case c == ' ' || c == '\t' || c == ',':
			flush()
		case c == '"' || c == '\'':
			end := n + 1
			for ; end < len(line) && line[end] != c; end++ {
				if line[end] == '\\' {
					end++
				}
			}
			if end >= len(line) {
				err = ErrQuote
				return
			}
			word.WriteString(line[n : end+1])
			n = end
		case c == '$' && n+1 < len(line) && line[n+1] == '(':
			depth := 0
			end := n + 1
			for ; end < len(line); end++ {
				if line[end] == '(' {
					depth++
				} else if line[end] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if end >= len(line) {
				err = ErrParseExpression(line[n:])
				return
			}
			word.WriteString(line[n : end+1])
			n = end
		default:
			word.WriteByte(c)
		}
	}

	flush()
	return
}

// parseLine expands a single line of text into the words of an
// instruction or directive. Equates, labels and macros are consumed here.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	words, err = splitWords(line)
	if err != nil || len(words) == 0 {
		return
	}

	for n, word := range words {
		switch {
		case strings.HasPrefix(word, "'"):
			var value uint32
			value, err = charValue(word)
			if err != nil {
				return
			}
			words[n] = fmt.Sprintf("%v", value)
		case strings.HasPrefix(word, "$("):
			var value uint32
			value, err = asm.parenEval(word[2 : len(word)-1])
			if err != nil {
				return
			}
			words[n] = fmt.Sprintf("%#x", value)
		}
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := strings.TrimPrefix(words[0][:len(words[0])-1], ".")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}

		if asm.depth >= MACRO_DEPTH {
			err = ErrMacroDepth
			return
		}
		asm.depth++
		defer func() { asm.depth-- }()
		asm.expand++
		local := fmt.Sprintf("%v_%v_", name, asm.expand)

		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next assembled byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.depth = 0
	asm.expand = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(text)

		var words []string
		words, err = splitWords(line)
		if err != nil {
			return
		}

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		asmLine := &asm.Lines[n]
		for _, link := range asmLine.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno, line = asmLine.LineNo, strings.Join(asmLine.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			if !fits(uint32(addr), link.Width) {
				lineno, line = asmLine.LineNo, strings.Join(asmLine.Words, " ")
				err = ErrOperandRange
				return
			}
			putValue(asmLine.Bytes[link.Offset:], link.Width, uint32(addr))
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// fits is true when value is representable in width bytes, either as an
// unsigned or a sign extended value.
func fits(value uint32, width int) bool {
	switch width {
	case 1:
		return value <= 0xff || value >= 0xffffff80
	case 2:
		return value <= 0xffff || value >= 0xffff8000
	}
	return true
}

func putValue(data []byte, width int, value uint32) {
	switch width {
	case 1:
		data[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(data, uint16(value))
	default:
		binary.LittleEndian.PutUint32(data, value)
	}
}

// isLabel is true for words that can name a label.
func isLabel(word string) bool {
	word = strings.TrimPrefix(word, ".")
	if len(word) == 0 {
		return false
	}
	c := word[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// encodeValue appends a width byte value or label reference to line.
func (asm *Assembler) encodeValue(line *Line, word string, width int) (err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		if !isLabel(word) {
			return
		}
		err = nil
		line.Links = append(line.Links, Link{
			Offset: len(line.Bytes),
			Width:  width,
			Label:  strings.TrimPrefix(word, "."),
		})
		value = 0
	}

	if !fits(value, width) {
		err = ErrOperandRange
		return
	}

	var data [4]byte
	putValue(data[:], width, value)
	line.Bytes = append(line.Bytes, data[:width]...)
	return
}

// parseWords assembles the words of a single instruction or directive.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	line := Line{LineNo: lineno, Addr: asm.currentAddr(), Words: words}

	defer func() {
		if err != nil || len(line.Bytes) == 0 {
			return
		}
		asm.Lines = append(asm.Lines, line)
	}()

	if strings.HasPrefix(words[0], ".") {
		err = asm.parseDirective(&line, words[0], words[1:])
		return
	}

	op, ok := LookupOpcode(words[0])
	if !ok {
		err = ErrParseMnemonic(words[0])
		return
	}

	args := words[1:]
	operands := op.Operands()
	if len(args) != len(operands) {
		err = ErrOperandCount
		return
	}

	line.Bytes = append(line.Bytes, byte(op))
	for n, operand := range operands {
		word := args[n]
		switch operand {
		case OPERAND_REG:
			reg, ok := ParseRegister(word)
			if !ok {
				err = ErrParseRegister(word)
				return
			}
			line.Bytes = append(line.Bytes, byte(reg))
		default:
			err = asm.encodeValue(&line, word, operand.Size())
			if err != nil {
				return
			}
		}
	}

	return
}

// parseDirective assembles data directives.
func (asm *Assembler) parseDirective(line *Line, directive string, args []string) (err error) {
	var width int

	switch directive {
	case ".byte":
		width = 1
	case ".word":
		width = 2
	case ".dword":
		width = 4
	case ".string":
		if len(args) != 1 || !strings.HasPrefix(args[0], "\"") {
			err = ErrOperandCount
			return
		}
		var text string
		text, err = strconv.Unquote(args[0])
		if err != nil {
			err = ErrParseString(args[0])
			return
		}
		line.Bytes = append(append(line.Bytes, text...), 0)
		return
	case ".zero":
		if len(args) != 1 {
			err = ErrOperandCount
			return
		}
		var count uint32
		count, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if count > MEMORY_LIMIT {
			err = ErrOperandRange
			return
		}
		line.Bytes = append(line.Bytes, make([]byte, count)...)
		return
	default:
		err = ErrDirective
		return
	}

	if len(args) == 0 {
		err = ErrOperandCount
		return
	}

	for _, word := range args {
		err = asm.encodeValue(line, word, width)
		if err != nil {
			return
		}
	}

	return
}
