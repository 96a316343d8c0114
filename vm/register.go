package vm

import (
	"math"
	"strings"
)

// Register is an index into the register file.
type Register uint8

//go:generate go tool stringer -linecomment -type=Register

const (
	R0 = Register(iota) // r0
	R1                  // r1
	R2                  // r2
	R3                  // r3
	R4                  // r4
	R5                  // r5
	T0                  // t0
	T1                  // t1
	T2                  // t2
	T3                  // t3
	T4                  // t4
	T5                  // t5
	T6                  // t6
	T7                  // t7
	T8                  // t8
	T9                  // t9
	IP                  // ip
	BP                  // bp
	SP                  // sp
	RA                  // ra
	REGISTER_COUNT
)

// IsValid is true when reg names a slot of the register file.
func (reg Register) IsValid() bool {
	return reg < REGISTER_COUNT
}

// ParseRegister returns the register with the given name, ignoring case.
func ParseRegister(name string) (reg Register, ok bool) {
	name = strings.ToLower(name)
	for candidate := range REGISTER_COUNT {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}

// RegisterFile holds the raw 32-bit value of every register.
type RegisterFile [REGISTER_COUNT]uint32

// Get the value of a register.
func (rf *RegisterFile) Get(reg Register) (value uint32, err error) {
	if !reg.IsValid() {
		err = ErrInvalidRegister
		return
	}
	value = rf[reg]
	return
}

// Set the value of a register.
func (rf *RegisterFile) Set(reg Register, value uint32) (err error) {
	if !reg.IsValid() {
		err = ErrInvalidRegister
		return
	}
	rf[reg] = value
	return
}

// Reset zeroes every register, then points SP at top.
func (rf *RegisterFile) Reset(top uint32) {
	*rf = RegisterFile{}
	rf[SP] = top
}

func bitsToInt32(bits uint32) int32 {
	return int32(bits)
}

func int32ToBits(value int32) uint32 {
	return uint32(value)
}

func bitsToF32(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func f32ToBits(value float32) uint32 {
	return math.Float32bits(value)
}
