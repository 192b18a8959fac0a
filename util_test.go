package huffman

import (
	"math"
	"testing"
)

func TestSaturatingArithmetic(t *testing.T) {
	type testRow struct {
		a, b uint64
		sum  uint64
		prod uint64
	}

	testData := [...]testRow{
		{a: 0, b: 0, sum: 0, prod: 0},
		{a: 3, b: 4, sum: 7, prod: 12},
		{a: math.MaxUint64, b: 1, sum: math.MaxUint64, prod: math.MaxUint64},
		{a: 1 << 63, b: 2, sum: 1<<63 + 2, prod: math.MaxUint64},
		{a: 1 << 32, b: 1 << 32, sum: 1 << 33, prod: math.MaxUint64},
		{a: 1 << 31, b: 1 << 32, sum: 1<<31 + 1<<32, prod: 1 << 63},
	}
	for _, row := range testData {
		if sum := saturatingAdd(row.a, row.b); sum != row.sum {
			t.Errorf("saturatingAdd(%d, %d): expected %d, got %d", row.a, row.b, row.sum, sum)
		}
		if prod := saturatingMul(row.a, row.b); prod != row.prod {
			t.Errorf("saturatingMul(%d, %d): expected %d, got %d", row.a, row.b, row.prod, prod)
		}
	}
}
