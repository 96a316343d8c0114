package vm

import (
	"strings"
)

// Opcode is the first byte of every instruction.
type Opcode uint8

const (
	OP_NOP      = Opcode(iota) // nop
	OP_HALT                    // halt
	OP_INT                     // int
	OP_LCONS                   // lcons
	OP_LCONSW                  // lconsw
	OP_LCONSB                  // lconsb
	OP_MOV                     // mov
	OP_PUSH                    // push
	OP_POP                     // pop
	OP_POP2                    // pop2
	OP_DUP                     // dup
	OP_CALL                    // call
	OP_RET                     // ret
	OP_STOR                    // stor
	OP_STOR_P                  // stor_p
	OP_STORW                   // storw
	OP_STORW_P                 // storw_p
	OP_STORB                   // storb
	OP_STORB_P                 // storb_p
	OP_LOAD                    // load
	OP_LOAD_P                  // load_p
	OP_LOADW                   // loadw
	OP_LOADW_P                 // loadw_p
	OP_LOADB                   // loadb
	OP_LOADB_P                 // loadb_p
	OP_MEMCPY                  // memcpy
	OP_MEMCPY_P                // memcpy_p
	OP_INC                     // inc
	OP_FINC                    // finc
	OP_DEC                     // dec
	OP_FDEC                    // fdec
	OP_ADD                     // add
	OP_FADD                    // fadd
	OP_SUB                     // sub
	OP_FSUB                    // fsub
	OP_MUL                     // mul
	OP_IMUL                    // imul
	OP_FMUL                    // fmul
	OP_DIV                     // div
	OP_IDIV                    // idiv
	OP_FDIV                    // fdiv
	OP_SHL                     // shl
	OP_SHR                     // shr
	OP_ISHR                    // ishr
	OP_MOD                     // mod
	OP_IMOD                    // imod
	OP_AND                     // and
	OP_OR                      // or
	OP_XOR                     // xor
	OP_NOT                     // not
	OP_U2I                     // u2i
	OP_I2U                     // i2u
	OP_I2F                     // i2f
	OP_F2I                     // f2i
	OP_JMP                     // jmp
	OP_JR                      // jr
	OP_JZ                      // jz
	OP_JNZ                     // jnz
	OP_JE                      // je
	OP_JNE                     // jne
	OP_JA                      // ja
	OP_JG                      // jg
	OP_JAE                     // jae
	OP_JGE                     // jge
	OP_JB                      // jb
	OP_JL                      // jl
	OP_JBE                     // jbe
	OP_JLE                     // jle
	OP_PRINT                   // print
	OP_PRINTI                  // printi
	OP_PRINTF                  // printf
	OP_PRINTC                  // printc
	OP_PRINTS                  // prints
	OP_PRINTLN                 // println
	OP_READ                    // read
	OP_READI                   // readi
	OP_READF                   // readf
	OP_READC                   // readc
	OP_READS                   // reads
	OP_I2S                     // i2s
	OP_S2I                     // s2i
	OP_DR                      // dr
	OP_AR                      // ar
	OP_DW                      // dw
	OP_AW                      // aw
	OP_DWR                     // dwr
	OP_AWR                     // awr
	OP_PM                      // pm
	OPCODE_COUNT
)

// Operand is the encoding of one instruction operand.
type Operand int

//go:generate go tool stringer -linecomment -type=Operand

const (
	OPERAND_REG = Operand(iota) // reg
	OPERAND_U8                  // u8
	OPERAND_U16                 // u16
	OPERAND_U32                 // u32
)

// Size of the operand in bytes.
func (op Operand) Size() int {
	switch op {
	case OPERAND_U16:
		return 2
	case OPERAND_U32:
		return 4
	}
	return 1
}

const (
	_r = OPERAND_REG
	_b = OPERAND_U8
	_w = OPERAND_U16
	_d = OPERAND_U32
)

type opcodeInfo struct {
	name     string
	operands []Operand
}

var opcodeTable = [OPCODE_COUNT]opcodeInfo{
	OP_NOP:      {"nop", nil},
	OP_HALT:     {"halt", nil},
	OP_INT:      {"int", []Operand{_b}},
	OP_LCONS:    {"lcons", []Operand{_r, _d}},
	OP_LCONSW:   {"lconsw", []Operand{_r, _w}},
	OP_LCONSB:   {"lconsb", []Operand{_r, _b}},
	OP_MOV:      {"mov", []Operand{_r, _r}},
	OP_PUSH:     {"push", []Operand{_r}},
	OP_POP:      {"pop", []Operand{_r}},
	OP_POP2:     {"pop2", []Operand{_r, _r}},
	OP_DUP:      {"dup", nil},
	OP_CALL:     {"call", []Operand{_w}},
	OP_RET:      {"ret", nil},
	OP_STOR:     {"stor", []Operand{_w, _r}},
	OP_STOR_P:   {"stor_p", []Operand{_r, _r}},
	OP_STORW:    {"storw", []Operand{_w, _r}},
	OP_STORW_P:  {"storw_p", []Operand{_r, _r}},
	OP_STORB:    {"storb", []Operand{_w, _r}},
	OP_STORB_P:  {"storb_p", []Operand{_r, _r}},
	OP_LOAD:     {"load", []Operand{_r, _w}},
	OP_LOAD_P:   {"load_p", []Operand{_r, _r}},
	OP_LOADW:    {"loadw", []Operand{_r, _w}},
	OP_LOADW_P:  {"loadw_p", []Operand{_r, _r}},
	OP_LOADB:    {"loadb", []Operand{_r, _w}},
	OP_LOADB_P:  {"loadb_p", []Operand{_r, _r}},
	OP_MEMCPY:   {"memcpy", []Operand{_w, _w, _w}},
	OP_MEMCPY_P: {"memcpy_p", []Operand{_r, _r, _r}},
	OP_INC:      {"inc", []Operand{_r}},
	OP_FINC:     {"finc", []Operand{_r}},
	OP_DEC:      {"dec", []Operand{_r}},
	OP_FDEC:     {"fdec", []Operand{_r}},
	OP_ADD:      {"add", []Operand{_r, _r, _r}},
	OP_FADD:     {"fadd", []Operand{_r, _r, _r}},
	OP_SUB:      {"sub", []Operand{_r, _r, _r}},
	OP_FSUB:     {"fsub", []Operand{_r, _r, _r}},
	OP_MUL:      {"mul", []Operand{_r, _r, _r}},
	OP_IMUL:     {"imul", []Operand{_r, _r, _r}},
	OP_FMUL:     {"fmul", []Operand{_r, _r, _r}},
	OP_DIV:      {"div", []Operand{_r, _r, _r}},
	OP_IDIV:     {"idiv", []Operand{_r, _r, _r}},
	OP_FDIV:     {"fdiv", []Operand{_r, _r, _r}},
	OP_SHL:      {"shl", []Operand{_r, _r, _r}},
	OP_SHR:      {"shr", []Operand{_r, _r, _r}},
	OP_ISHR:     {"ishr", []Operand{_r, _r, _r}},
	OP_MOD:      {"mod", []Operand{_r, _r, _r}},
	OP_IMOD:     {"imod", []Operand{_r, _r, _r}},
	OP_AND:      {"and", []Operand{_r, _r, _r}},
	OP_OR:       {"or", []Operand{_r, _r, _r}},
	OP_XOR:      {"xor", []Operand{_r, _r, _r}},
	OP_NOT:      {"not", []Operand{_r, _r}},
	OP_U2I:      {"u2i", []Operand{_r}},
	OP_I2U:      {"i2u", []Operand{_r}},
	OP_I2F:      {"i2f", []Operand{_r, _r}},
	OP_F2I:      {"f2i", []Operand{_r, _r}},
	OP_JMP:      {"jmp", []Operand{_w}},
	OP_JR:       {"jr", []Operand{_r}},
	OP_JZ:       {"jz", []Operand{_r, _w}},
	OP_JNZ:      {"jnz", []Operand{_r, _w}},
	OP_JE:       {"je", []Operand{_r, _r, _w}},
	OP_JNE:      {"jne", []Operand{_r, _r, _w}},
	OP_JA:       {"ja", []Operand{_r, _r, _w}},
	OP_JG:       {"jg", []Operand{_r, _r, _w}},
	OP_JAE:      {"jae", []Operand{_r, _r, _w}},
	OP_JGE:      {"jge", []Operand{_r, _r, _w}},
	OP_JB:       {"jb", []Operand{_r, _r, _w}},
	OP_JL:       {"jl", []Operand{_r, _r, _w}},
	OP_JBE:      {"jbe", []Operand{_r, _r, _w}},
	OP_JLE:      {"jle", []Operand{_r, _r, _w}},
	OP_PRINT:    {"print", []Operand{_r, _b}},
	OP_PRINTI:   {"printi", []Operand{_r, _b}},
	OP_PRINTF:   {"printf", []Operand{_r, _b}},
	OP_PRINTC:   {"printc", []Operand{_r}},
	OP_PRINTS:   {"prints", []Operand{_w}},
	OP_PRINTLN:  {"println", nil},
	OP_READ:     {"read", []Operand{_r}},
	OP_READI:    {"readi", []Operand{_r}},
	OP_READF:    {"readf", []Operand{_r}},
	OP_READC:    {"readc", []Operand{_r}},
	OP_READS:    {"reads", []Operand{_w, _w}},
	OP_I2S:      {"i2s", []Operand{_w, _r}},
	OP_S2I:      {"s2i", []Operand{_r, _w}},
	OP_DR:       {"dr", []Operand{_r, _b}},
	OP_AR:       {"ar", []Operand{_r, _b}},
	OP_DW:       {"dw", []Operand{_b, _b}},
	OP_AW:       {"aw", []Operand{_b, _w}},
	OP_DWR:      {"dwr", []Operand{_b, _r}},
	OP_AWR:      {"awr", []Operand{_b, _r}},
	OP_PM:       {"pm", []Operand{_b, _b}},
}

func (op Opcode) String() string {
	if !op.IsValid() {
		return f("Opcode(0x%02x)", uint8(op))
	}
	return opcodeTable[op].name
}

// IsValid is true for every opcode in the instruction set.
func (op Opcode) IsValid() bool {
	return op < OPCODE_COUNT
}

// Operands returns the operand encodings following the opcode byte.
func (op Opcode) Operands() []Operand {
	if !op.IsValid() {
		return nil
	}
	return opcodeTable[op].operands
}

// Size of the whole instruction in bytes.
func (op Opcode) Size() (size int) {
	size = 1
	for _, operand := range op.Operands() {
		size += operand.Size()
	}
	return
}

// LookupOpcode finds an opcode by mnemonic, ignoring case.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	mnemonic = strings.ToLower(mnemonic)
	for n, info := range opcodeTable {
		if info.name == mnemonic {
			return Opcode(n), true
		}
	}
	return 0, false
}
