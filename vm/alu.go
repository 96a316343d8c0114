package vm

import (
	"math"
	"strconv"
)

// aluFunc computes a result from two raw register values.
type aluFunc func(a, b uint32) (uint32, error)

func aluAdd(a, b uint32) (uint32, error) { return a + b, nil }
func aluSub(a, b uint32) (uint32, error) { return a - b, nil }
func aluMul(a, b uint32) (uint32, error) { return a * b, nil }
func aluAnd(a, b uint32) (uint32, error) { return a & b, nil }
func aluOr(a, b uint32) (uint32, error) { return a | b, nil }
func aluXor(a, b uint32) (uint32, error) { return a ^ b, nil }
func aluShl(a, b uint32) (uint32, error) { return a << (b & 0x1f), nil }
func aluShr(a, b uint32) (uint32, error) { return a >> (b & 0x1f), nil }

func aluIshr(a, b uint32) (uint32, error) {
	return int32ToBits(bitsToInt32(a) >> (b & 0x1f)), nil
}

func aluImul(a, b uint32) (uint32, error) {
	return int32ToBits(bitsToInt32(a) * bitsToInt32(b)), nil
}

func aluDiv(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func aluMod(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a % b, nil
}

// Go defines MinInt32 / -1 as MinInt32, with a remainder of 0.
func aluIdiv(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return int32ToBits(bitsToInt32(a) / bitsToInt32(b)), nil
}

func aluImod(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return int32ToBits(bitsToInt32(a) % bitsToInt32(b)), nil
}

func aluFadd(a, b uint32) (uint32, error) {
	return f32ToBits(bitsToF32(a) + bitsToF32(b)), nil
}

func aluFsub(a, b uint32) (uint32, error) {
	return f32ToBits(bitsToF32(a) - bitsToF32(b)), nil
}

func aluFmul(a, b uint32) (uint32, error) {
	return f32ToBits(bitsToF32(a) * bitsToF32(b)), nil
}

// Float division follows IEEE-754, including division by zero.
func aluFdiv(a, b uint32) (uint32, error) {
	return f32ToBits(bitsToF32(a) / bitsToF32(b)), nil
}

func intToFloat(bits uint32) uint32 {
	return f32ToBits(float32(bitsToInt32(bits)))
}

// floatToInt truncates toward zero, saturating at the int32 limits.
// NaN converts to zero.
func floatToInt(bits uint32) uint32 {
	value := bitsToF32(bits)
	switch {
	case value != value:
		return 0
	case value >= math.MaxInt32:
		return int32ToBits(math.MaxInt32)
	case value <= math.MinInt32:
		return int32ToBits(math.MinInt32)
	}
	return int32ToBits(int32(value))
}

// formatInt renders the signed value of bits as NUL terminated decimal.
func formatInt(bits uint32) []byte {
	text := strconv.AppendInt(nil, int64(bitsToInt32(bits)), 10)
	return append(text, 0)
}

// parseInt reads optional leading space, an optional sign and decimal
// digits, saturating at the int32 limits.
func parseInt(text []byte) (bits uint32, ok bool) {
	n := 0
	for n < len(text) && isSpace(text[n]) {
		n++
	}

	negative := false
	if n < len(text) && (text[n] == '-' || text[n] == '+') {
		negative = text[n] == '-'
		n++
	}

	var value int64
	for ; n < len(text) && text[n] >= '0' && text[n] <= '9'; n++ {
		ok = true
		if value <= math.MaxInt32+1 {
			value = value*10 + int64(text[n]-'0')
		}
	}
	if !ok {
		return
	}

	if negative {
		value = -value
	}
	value = max(min(value, math.MaxInt32), math.MinInt32)

	bits = int32ToBits(int32(value))
	return
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
