// Package vm is a register based bytecode virtual machine.
//
// A VM owns a single little-endian memory buffer holding the program image
// followed by a downward growing stack, and a file of twenty 32-bit
// registers. Registers carry no type; each opcode reads them as unsigned,
// two's-complement signed or IEEE-754 float32 bit patterns.
//
// Hosts drive a VM with Run, optionally limiting the number of
// instructions executed so that several machines can be time-sliced.
// Console and GPIO access are delegated to the host capabilities given in
// Options.
package vm
