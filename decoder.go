package huffman

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Decoder turns a BitString back into symbols using a CodeTable.
//
// A Decoder is immutable and safe for concurrent use; each call to Decode
// or Stream keeps its own accumulator.
type Decoder[S comparable] struct {
	codes   *CodeTable[S]
	table   map[Code]decoderData[S]
	minSize byte
	maxSize byte
}

// NewDecoder builds the inverse of the given CodeTable.  The inverse holds
// an entry for every code and for every proper prefix of a code, so that a
// dead end is detected as soon as the accumulated bits leave the table.
//
// Returns an error wrapping ErrAmbiguousCode if two symbols share a code or
// if one symbol's code is a prefix of another's.
//
func NewDecoder[S comparable](codes *CodeTable[S]) (*Decoder[S], error) {
	numSymbols := uint32(codes.Len())

	// len(table) is approximately n×log2(n) when filled.
	numTableSlots := numSymbols * log2uint32(numSymbols)

	d := &Decoder[S]{
		codes:   codes,
		table:   make(map[Code]decoderData[S], numTableSlots),
		minSize: codes.MinSize(),
		maxSize: codes.MaxSize(),
	}

	var err error
	codes.Each(func(symbol S, hc Code) {
		if err == nil {
			err = d.checkPrefixFree(symbol, hc)
		}
		if err == nil {
			fillTable(d.table, symbol, hc)
		}
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder[S]) checkPrefixFree(symbol S, hc Code) error {
	if dd, found := d.table[hc]; found {
		if dd.leaf {
			return fmt.Errorf("%w: symbols %v and %v share code %s", ErrAmbiguousCode, dd.symbol, symbol, hc)
		}
		return fmt.Errorf("%w: code %s of symbol %v is a prefix of another code", ErrAmbiguousCode, hc, symbol)
	}
	for prefix := hc.Parent(); prefix.Size != 0; prefix = prefix.Parent() {
		if dd, found := d.table[prefix]; found && dd.leaf {
			return fmt.Errorf("%w: code %s of symbol %v is a prefix of code %s of symbol %v", ErrAmbiguousCode, prefix, dd.symbol, hc, symbol)
		}
	}
	return nil
}

// Decode is a convenience function that builds a Decoder for codes and
// decodes bits with it.
func Decode[S comparable](bits BitString, codes *CodeTable[S]) ([]S, error) {
	d, err := NewDecoder(codes)
	if err != nil {
		return nil, err
	}
	return d.Decode(bits)
}

// Decode recovers the symbols encoded in bits.
//
// Returns an error wrapping ErrInvalidCode if the bits stray from every
// code, or ErrTruncatedStream if bits end partway through a code.  No
// symbols are returned with an error.
//
func (d *Decoder[S]) Decode(bits BitString) ([]S, error) {
	out := make([]S, 0, bits.Len()/int(max(d.maxSize, 1)))
	s := d.Stream()
	for index := 0; index < bits.Len(); index++ {
		symbol, ok, err := s.WriteBit(bits.At(index))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, symbol)
		}
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup looks up a complete or partial code.
//
// If hc is a complete code, ok is true and minSize == maxSize == hc.Size.
//
// If hc is a proper prefix of one or more codes, ok is false and the
// completed code will be between minSize and maxSize bits long.
//
// If hc is not a prefix of any code, ok is false and minSize == maxSize == 0.
//
func (d *Decoder[S]) Lookup(hc Code) (symbol S, ok bool, minSize byte, maxSize byte) {
	dd, found := d.table[hc]
	if !found {
		return symbol, false, 0, 0
	}
	return dd.symbol, dd.leaf, dd.minSize, dd.maxSize
}

// Codes returns the CodeTable this Decoder inverts.
func (d *Decoder[S]) Codes() *CodeTable[S] {
	return d.codes
}

// MinSize is the bit length of the shortest legal code.
func (d *Decoder[S]) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d *Decoder[S]) MaxSize() byte {
	return d.maxSize
}

// Stream returns a StreamDecoder that consumes bits one at a time.
func (d *Decoder[S]) Stream() *StreamDecoder[S] {
	return &StreamDecoder[S]{d: d}
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make(byCode, 0, len(d.table))
	for hc := range d.table {
		keys = append(keys, hc)
	}
	keys.Sort()
	for _, hc := range keys {
		dd := d.table[hc]
		if dd.leaf {
			fmt.Fprintf(&buf, "\tDecode(%s) = {%v, %d, %d}\n", hc, dd.symbol, dd.minSize, dd.maxSize)
		} else {
			fmt.Fprintf(&buf, "\tDecode(%s) = {nil, %d, %d}\n", hc, dd.minSize, dd.maxSize)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// StreamDecoder decodes bits as they arrive.  It is not safe for
// concurrent use.
type StreamDecoder[S comparable] struct {
	d      *Decoder[S]
	acc    Code
	offset int
	start  int
}

// WriteBit appends one bit to the accumulator.  If the accumulator now
// holds a complete code, the symbol is returned with ok == true and the
// accumulator is reset.
//
// Returns an error wrapping ErrInvalidCode, and resets the accumulator, if
// no code begins with the accumulated bits.
//
func (s *StreamDecoder[S]) WriteBit(bit uint) (symbol S, ok bool, err error) {
	s.acc = s.acc.Append(bit)
	s.offset++

	dd, found := s.d.table[s.acc]
	switch {
	case !found:
		err = fmt.Errorf("%w: %s at bit offset %d", ErrInvalidCode, s.acc, s.start)
		s.reset()
		return symbol, false, err
	case !dd.leaf:
		return symbol, false, nil
	}
	s.reset()
	return dd.symbol, true, nil
}

// Pending returns the bits accumulated since the last complete code.
func (s *StreamDecoder[S]) Pending() Code {
	return s.acc
}

// Close reports ErrTruncatedStream if the stream ended partway through a
// code.
func (s *StreamDecoder[S]) Close() error {
	if s.acc.Size != 0 {
		return fmt.Errorf("%w: %d trailing bits %s at offset %d", ErrTruncatedStream, s.acc.Size, s.acc, s.start)
	}
	return nil
}

func (s *StreamDecoder[S]) reset() {
	s.acc = Code{}
	s.start = s.offset
}

type decoderData[S comparable] struct {
	symbol  S
	leaf    bool
	minSize byte
	maxSize byte
}

func fillTable[S comparable](table map[Code]decoderData[S], symbol S, hc Code) {
	dd := decoderData[S]{symbol: symbol, leaf: true, minSize: hc.Size, maxSize: hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// For each hc "...xxxa", compute "...xxxA" where A = NOT a.

		bit := uint64(1) << (hc.Size - 1)
		hc.Bits ^= bit

		// Merge the dd's from "...xxxa" (dd) and "...xxxA" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData[S]{minSize: dd.minSize, maxSize: dd.maxSize}
		if ddSibling, found := table[hc]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "...xxxA" to "...xxx".

		hc.Size--
		hc.Bits &^= bit

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && ddOld == ddNew {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
}

// type byCode {{{

type byCode []Code

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

// Less orders codes by size, then lexicographically from the first bit.
func (list byCode) Less(i, j int) bool {
	a, b := list[i], list[j]
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	return a.Reversed().Bits < b.Reversed().Bits
}

var _ sort.Interface = byCode(nil)

// }}}
