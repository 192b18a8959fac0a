package huffman

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/chronos-tachyon/assert"
)

// BitString is an ordered sequence of bits of arbitrary length, as produced
// by Encode.  It is a logical sequence: bits are addressed by position, not
// packed for storage.
//
// The zero value is the empty BitString.  A BitString must not be modified
// after it is returned to the caller; copies share storage.
type BitString struct {
	set  *bitset.BitSet
	size uint
}

// ParseBitString parses a string of '0' and '1' characters, first bit first.
func ParseBitString(str string) (BitString, error) {
	b := BitString{set: bitset.New(uint(len(str)))}
	for index := 0; index < len(str); index++ {
		switch str[index] {
		case '0':
			b.appendBit(0)
		case '1':
			b.appendBit(1)
		default:
			return BitString{}, fmt.Errorf("%w: %q at offset %d", ErrInvalidBit, str[index], index)
		}
	}
	return b, nil
}

// Len returns the number of bits.
func (b BitString) Len() int {
	return int(b.size)
}

// At returns the bit at the given position.
func (b BitString) At(index int) uint {
	assert.Assertf(index >= 0 && uint(index) < b.size, "bit index %d out of range [0, %d)", index, b.size)
	if b.set.Test(uint(index)) {
		return 1
	}
	return 0
}

// Prefix returns a copy of the first n bits.
func (b BitString) Prefix(n int) BitString {
	assert.Assertf(n >= 0 && uint(n) <= b.size, "prefix length %d out of range [0, %d]", n, b.size)
	out := BitString{set: bitset.New(uint(n))}
	for index := 0; index < n; index++ {
		out.appendBit(b.At(index))
	}
	return out
}

// Equal returns true iff both bit strings hold the same bits.
func (b BitString) Equal(other BitString) bool {
	if b.size != other.size {
		return false
	}
	for index := 0; index < int(b.size); index++ {
		if b.At(index) != other.At(index) {
			return false
		}
	}
	return true
}

// Text returns the bits as a string of '0' and '1' characters.
func (b BitString) Text() string {
	var sb strings.Builder
	sb.Grow(int(b.size))
	for index := 0; index < int(b.size); index++ {
		sb.WriteByte('0' + byte(b.At(index)))
	}
	return sb.String()
}

// String returns the string representation of this BitString.
func (b BitString) String() string {
	return fmt.Sprintf("%q", b.Text())
}

// MarshalJSON encodes the BitString as a JSON string of '0' and '1'
// characters.
func (b BitString) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Text())
}

// UnmarshalJSON decodes a BitString previously encoded by MarshalJSON.
func (b *BitString) UnmarshalJSON(raw []byte) error {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return err
	}
	parsed, err := ParseBitString(str)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b *BitString) appendBit(bit uint) {
	if b.set == nil {
		b.set = bitset.New(0)
	}
	if bit&1 != 0 {
		b.set.Set(b.size)
	}
	b.size++
}

func (b *BitString) appendCode(hc Code) {
	for index := byte(0); index < hc.Size; index++ {
		b.appendBit(hc.Bit(index))
	}
}

var _ fmt.Stringer = BitString{}
