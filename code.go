package huffman

import (
	"fmt"
	mathbits "math/bits"
	"strconv"

	"github.com/chronos-tachyon/assert"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxCodeSize is the largest number of bits a Code can hold.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The least significant bit
	// of Bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	assert.Assertf(size <= MaxCodeSize, "size %d > MaxCodeSize %d", size, MaxCodeSize)
	if size < MaxCodeSize {
		bits &= (uint64(1) << size) - 1
	}
	return Code{Size: size, Bits: bits}
}

// MakeReversedCode constructs a Code from a sequence of bits that's in the
// wrong order, i.e. the least significant bit is the *last* bit in the
// sequence, instead of the first.
func MakeReversedCode(size byte, bits uint64) Code {
	return MakeCode(size, reverseBits(size, bits))
}

// ParseCode parses a string of '0' and '1' characters, first bit first.
func ParseCode(str string) (Code, error) {
	if len(str) > MaxCodeSize {
		return Code{}, fmt.Errorf("%w: %d bits, max %d", ErrCodeTooLong, len(str), MaxCodeSize)
	}
	var hc Code
	for index := 0; index < len(str); index++ {
		switch str[index] {
		case '0':
			hc = hc.Append(0)
		case '1':
			hc = hc.Append(1)
		default:
			return Code{}, fmt.Errorf("%w: %q at offset %d", ErrInvalidBit, str[index], index)
		}
	}
	return hc, nil
}

// Reversed returns the corresponding Code with the bits in reverse order.
func (hc Code) Reversed() Code {
	return MakeReversedCode(hc.Size, hc.Bits)
}

// Bit returns the bit at the given position, counting from the first bit.
func (hc Code) Bit(index byte) uint {
	assert.Assertf(index < hc.Size, "bit index %d out of range for code of size %d", index, hc.Size)
	return uint(hc.Bits>>index) & 1
}

// Append returns hc with one more bit at the end.
func (hc Code) Append(bit uint) Code {
	assert.Assertf(hc.Size < MaxCodeSize, "cannot append to a code of size %d", hc.Size)
	hc.Bits |= uint64(bit&1) << hc.Size
	hc.Size++
	return hc
}

// Parent returns hc with its last bit removed.  The empty code is its own
// parent.
func (hc Code) Parent() Code {
	if hc.Size == 0 {
		return hc
	}
	hc.Size--
	hc.Bits &^= uint64(1) << hc.Size
	return hc
}

// HasPrefix returns true iff the first prefix.Size bits of hc equal prefix.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	return MakeCode(prefix.Size, hc.Bits) == prefix
}

// Text returns the bits as a string of '0' and '1' characters, first bit
// first.
func (hc Code) Text() string {
	buf := make([]byte, hc.Size)
	for index := byte(0); index < hc.Size; index++ {
		buf[index] = '0' + byte(hc.Bit(index))
	}
	return string(buf)
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return strconv.Quote(hc.Text())
}

// MarshalJSON encodes the Code as a JSON string of '0' and '1' characters.
func (hc Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(hc.Text())
}

// UnmarshalJSON decodes a Code previously encoded by MarshalJSON.
func (hc *Code) UnmarshalJSON(raw []byte) error {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return err
	}
	parsed, err := ParseCode(str)
	if err != nil {
		return err
	}
	*hc = parsed
	return nil
}

var _ fmt.Stringer = Code{}

func reverseBits(size byte, bits uint64) uint64 {
	if size == 0 {
		return 0
	}
	return mathbits.Reverse64(bits) >> (64 - size)
}
