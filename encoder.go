package huffman

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
	"github.com/chronos-tachyon/assert"
	"golang.org/x/exp/slices"
)

// CodeEntry pairs a symbol with its code.
type CodeEntry[S comparable] struct {
	Symbol S    `json:"symbol"`
	Code   Code `json:"code"`
}

// CodeTable maps each symbol to its code.  A CodeTable derived from a Tree
// is prefix-free; one built by hand with NewCodeTable might not be, which
// NewDecoder detects.
//
// A CodeTable is immutable once constructed and safe for concurrent use.
type CodeTable[S comparable] struct {
	order   []S
	codes   map[S]Code
	minSize byte
	maxSize byte
}

// Derive computes the code of every symbol in the tree by walking it from
// the root, appending 0 when descending left and 1 when descending right.
//
// Returns ErrCodeTooLong if a leaf lies deeper than the tree's maximum code
// size (see WithMaxCodeSize).
//
func Derive[S comparable](t *Tree[S]) (*CodeTable[S], error) {
	numSymbols := t.Len()
	codes := make([]Code, numSymbols)
	var tooLong error
	t.walk(func(id nodeID, depth int, hc Code) {
		if id == placeholderID || tooLong != nil {
			return
		}
		if depth > int(t.maxCodeSize) {
			symbol, _ := t.freq.at(int(id))
			tooLong = fmt.Errorf("%w: symbol %v needs %d bits, max %d", ErrCodeTooLong, symbol, depth, t.maxCodeSize)
			return
		}
		assert.Assertf(hc.Size != 0, "leaf %d reached with an empty code", id)
		codes[id] = hc
	})
	if tooLong != nil {
		return nil, tooLong
	}

	ct := newCodeTable[S](numSymbols)
	for index := 0; index < numSymbols; index++ {
		symbol, _ := t.freq.at(index)
		assert.Assertf(codes[index].Size != 0, "symbol %v was not reached by the tree walk", symbol)
		ct.add(symbol, codes[index])
	}
	return ct, nil
}

// NewCodeTable constructs a CodeTable from explicit entries, e.g. a table
// received alongside an encoded BitString.  Entries keep their order.
func NewCodeTable[S comparable](entries ...CodeEntry[S]) (*CodeTable[S], error) {
	ct := newCodeTable[S](len(entries))
	for _, entry := range entries {
		if entry.Code.Size == 0 {
			return nil, fmt.Errorf("%w: symbol %v", ErrEmptyCode, entry.Symbol)
		}
		if _, found := ct.codes[entry.Symbol]; found {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateSymbol, entry.Symbol)
		}
		ct.add(entry.Symbol, entry.Code)
	}
	return ct, nil
}

func newCodeTable[S comparable](capacity int) *CodeTable[S] {
	return &CodeTable[S]{
		order: make([]S, 0, capacity),
		codes: make(map[S]Code, capacity),
	}
}

func (ct *CodeTable[S]) add(symbol S, hc Code) {
	if len(ct.order) == 0 {
		ct.minSize = hc.Size
		ct.maxSize = hc.Size
	} else if ct.minSize > hc.Size {
		ct.minSize = hc.Size
	} else if ct.maxSize < hc.Size {
		ct.maxSize = hc.Size
	}
	ct.order = append(ct.order, symbol)
	ct.codes[symbol] = hc
}

// Lookup returns the code for symbol.
func (ct *CodeTable[S]) Lookup(symbol S) (Code, bool) {
	hc, found := ct.codes[symbol]
	return hc, found
}

// Len returns the number of symbols in the table.
func (ct *CodeTable[S]) Len() int {
	return len(ct.order)
}

// Symbols returns the symbols in table order.
func (ct *CodeTable[S]) Symbols() []S {
	return slices.Clone(ct.order)
}

// Entries returns the table's entries in table order.
func (ct *CodeTable[S]) Entries() []CodeEntry[S] {
	out := make([]CodeEntry[S], 0, len(ct.order))
	ct.Each(func(symbol S, hc Code) {
		out = append(out, CodeEntry[S]{Symbol: symbol, Code: hc})
	})
	return out
}

// Each calls fn for each entry in table order.
func (ct *CodeTable[S]) Each(fn func(symbol S, hc Code)) {
	for _, symbol := range ct.order {
		fn(symbol, ct.codes[symbol])
	}
}

// MinSize is the bit length of the shortest code.
func (ct *CodeTable[S]) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest code.
func (ct *CodeTable[S]) MaxSize() byte {
	return ct.maxSize
}

// EncodedSize returns the number of bits needed to encode every occurrence
// counted by ft.
func (ct *CodeTable[S]) EncodedSize(ft *FrequencyTable[S]) (uint64, error) {
	var total uint64
	for index := 0; index < ft.Len(); index++ {
		symbol, count := ft.at(index)
		hc, found := ct.codes[symbol]
		if !found {
			return 0, fmt.Errorf("%w: %v", ErrUnknownSymbol, symbol)
		}
		total = saturatingAdd(total, saturatingMul(count, uint64(hc.Size)))
	}
	return total, nil
}

// Fingerprint returns a 64-bit hash of the table's entries, in order.  Two
// tables built from the same FrequencyTable have the same fingerprint.
func (ct *CodeTable[S]) Fingerprint() uint64 {
	d := xxhash.New()
	ct.Each(func(symbol S, hc Code) {
		text := fmt.Sprint(symbol)
		_, _ = fmt.Fprintf(d, "%d:%s%d:%s", len(text), text, hc.Size, hc.Text())
	})
	return d.Sum64()
}

// Dump writes a programmer-readable debugging dump of the CodeTable to the
// given writer.
func (ct *CodeTable[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	ct.Each(func(symbol S, hc Code) {
		fmt.Fprintf(&buf, "\tEncode(%v) = %s\n", symbol, hc)
	})
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// MarshalJSON encodes the table as an array of {"symbol", "code"} objects.
func (ct *CodeTable[S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.Entries())
}

// UnmarshalJSON decodes a table previously encoded by MarshalJSON.
func (ct *CodeTable[S]) UnmarshalJSON(raw []byte) error {
	var entries []CodeEntry[S]
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}
	parsed, err := NewCodeTable(entries...)
	if err != nil {
		return err
	}
	*ct = *parsed
	return nil
}

// Encode concatenates the codes of the given symbols, in order.
//
// Returns an error wrapping ErrUnknownSymbol if a symbol has no code.
//
func Encode[S comparable](symbols []S, codes *CodeTable[S]) (BitString, error) {
	out := BitString{set: bitset.New(uint(len(symbols)))}
	for index, symbol := range symbols {
		hc, found := codes.codes[symbol]
		if !found {
			return BitString{}, fmt.Errorf("%w: %v at position %d", ErrUnknownSymbol, symbol, index)
		}
		out.appendCode(hc)
	}
	return out, nil
}

// EncodeAll counts the symbols, builds their Huffman tree, derives the
// CodeTable and encodes the symbols with it.  The CodeTable is needed to
// decode the result.
func EncodeAll[S comparable](symbols []S, opts ...BuildOption) (BitString, *CodeTable[S], error) {
	t, err := Build(Count(symbols), opts...)
	if err != nil {
		return BitString{}, nil, err
	}
	codes, err := Derive(t)
	if err != nil {
		return BitString{}, nil, err
	}
	bits, err := Encode(symbols, codes)
	if err != nil {
		return BitString{}, nil, err
	}
	return bits, codes, nil
}
