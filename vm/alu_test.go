package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAluInteger(t *testing.T) {
	assert := assert.New(t)

	neg := func(v int32) uint32 { return int32ToBits(v) }

	table := [](struct {
		name   string
		fn     aluFunc
		a, b   uint32
		result uint32
	}){
		{"add", aluAdd, 1123497651, 987513, 1124485164},
		{"add_wrap", aluAdd, math.MaxUint32, 1, 0},
		{"sub", aluSub, 1123497651, 987513, 1122510138},
		{"sub_wrap", aluSub, 0, 1, math.MaxUint32},
		{"mul", aluMul, 0x10000, 0x10001, 0x10000},
		{"imul", aluImul, neg(-7), 6, neg(-42)},
		{"div", aluDiv, 100, 7, 14},
		{"div_unsigned", aluDiv, neg(-2), 2, 0x7fffffff},
		{"idiv", aluIdiv, neg(-100), 7, neg(-14)},
		{"idiv_min", aluIdiv, neg(math.MinInt32), neg(-1), neg(math.MinInt32)},
		{"mod", aluMod, 100, 7, 2},
		{"imod", aluImod, neg(-100), 7, neg(-2)},
		{"imod_min", aluImod, neg(math.MinInt32), neg(-1), 0},
		{"shl", aluShl, 1, 31, 0x80000000},
		{"shl_mask", aluShl, 1, 33, 2},
		{"shr", aluShr, 0x80000000, 31, 1},
		{"ishr", aluIshr, 0x80000000, 31, 0xffffffff},
		{"and", aluAnd, 0xff00ff00, 0x0ff00ff0, 0x0f000f00},
		{"or", aluOr, 0xff00ff00, 0x0ff00ff0, 0xfff0fff0},
		{"xor", aluXor, 0xff00ff00, 0x0ff00ff0, 0xf0f0f0f0},
	}

	for _, entry := range table {
		result, err := entry.fn(entry.a, entry.b)
		assert.NoError(err, entry.name)
		assert.Equal(entry.result, result, entry.name)
	}
}

func TestAluDivisionByZero(t *testing.T) {
	assert := assert.New(t)

	for _, fn := range []aluFunc{aluDiv, aluIdiv, aluMod, aluImod} {
		_, err := fn(1, 0)
		assert.ErrorIs(err, ErrDivisionByZero)
	}

	result, err := aluFdiv(f32ToBits(1), f32ToBits(0))
	assert.NoError(err)
	assert.True(math.IsInf(float64(bitsToF32(result)), 1))

	result, err = aluFdiv(f32ToBits(0), f32ToBits(0))
	assert.NoError(err)
	assert.True(math.IsNaN(float64(bitsToF32(result))))
}

func TestAluFloat(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		fn     aluFunc
		a, b   float32
		result float32
	}){
		{"fadd", aluFadd, 357.34, 847.21, 1204.55},
		{"fsub", aluFsub, 357.34, 847.21, -489.87},
		{"fmul", aluFmul, 12.5, -4.25, -53.125},
		{"fdiv", aluFdiv, 1204.55, 5, 240.91},
	}

	for _, entry := range table {
		result, err := entry.fn(f32ToBits(entry.a), f32ToBits(entry.b))
		assert.NoError(err, entry.name)
		assert.InDelta(entry.result, bitsToF32(result), 0.001, entry.name)
	}
}

func TestConvert(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		value  float32
		result int32
	}){
		{"positive", 1345.937, 1345},
		{"negative", -781345.719, -781345},
		{"small", -0.5, 0},
		{"max", 1e10, math.MaxInt32},
		{"min", -1e10, math.MinInt32},
		{"inf", float32(math.Inf(1)), math.MaxInt32},
		{"nan", float32(math.NaN()), 0},
	}

	for _, entry := range table {
		assert.Equal(entry.result, bitsToInt32(floatToInt(f32ToBits(entry.value))), entry.name)
	}

	assert.Equal(float32(-781345), bitsToF32(intToFloat(int32ToBits(-781345))))
}

func TestIntegerText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte("-1234\x00"), formatInt(int32ToBits(-1234)))
	assert.Equal([]byte("0\x00"), formatInt(0))

	table := [](struct {
		text   string
		ok     bool
		result int32
	}){
		{"42", true, 42},
		{"  -17xyz", true, -17},
		{"+8", true, 8},
		{"99999999999", true, math.MaxInt32},
		{"-99999999999", true, math.MinInt32},
		{"", false, 0},
		{"-", false, 0},
		{"abc", false, 0},
	}

	for _, entry := range table {
		bits, ok := parseInt([]byte(entry.text))
		assert.Equal(entry.ok, ok, entry.text)
		assert.Equal(entry.result, bitsToInt32(bits), entry.text)
	}
}
