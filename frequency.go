package huffman

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Frequency pairs a symbol with its number of occurrences.
type Frequency[S comparable] struct {
	Symbol S
	Count  uint64
}

// FrequencyTable maps each distinct symbol to its number of occurrences.
// Symbols are kept in the order they were first seen, which is the order
// Build uses to break ties between equal frequencies.
//
// A FrequencyTable is immutable once constructed.
type FrequencyTable[S comparable] struct {
	order  []S
	counts map[S]uint64
	total  uint64
}

// Count tallies the symbols in the given sequence.  An empty sequence yields
// an empty table.
func Count[S comparable](symbols []S) *FrequencyTable[S] {
	ft := &FrequencyTable[S]{counts: make(map[S]uint64)}
	for _, symbol := range symbols {
		if _, found := ft.counts[symbol]; !found {
			ft.order = append(ft.order, symbol)
		}
		ft.counts[symbol]++
	}
	ft.total = uint64(len(symbols))
	return ft
}

// NewFrequencyTable constructs a FrequencyTable from counts that were
// gathered elsewhere.  The order of entries is the tie-break order.
func NewFrequencyTable[S comparable](entries ...Frequency[S]) (*FrequencyTable[S], error) {
	ft := &FrequencyTable[S]{
		order:  make([]S, 0, len(entries)),
		counts: make(map[S]uint64, len(entries)),
	}
	for _, entry := range entries {
		if entry.Count == 0 {
			return nil, fmt.Errorf("%w: symbol %v", ErrZeroFrequency, entry.Symbol)
		}
		if _, found := ft.counts[entry.Symbol]; found {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateSymbol, entry.Symbol)
		}
		ft.order = append(ft.order, entry.Symbol)
		ft.counts[entry.Symbol] = entry.Count
		ft.total = saturatingAdd(ft.total, entry.Count)
	}
	return ft, nil
}

// Len returns the number of distinct symbols.
func (ft *FrequencyTable[S]) Len() int {
	return len(ft.order)
}

// Total returns the sum of all counts.
func (ft *FrequencyTable[S]) Total() uint64 {
	return ft.total
}

// Count returns the number of occurrences of symbol, or 0 if absent.
func (ft *FrequencyTable[S]) Count(symbol S) uint64 {
	return ft.counts[symbol]
}

// Symbols returns the distinct symbols in first-seen order.
func (ft *FrequencyTable[S]) Symbols() []S {
	return slices.Clone(ft.order)
}

// Each calls fn for each symbol in first-seen order.
func (ft *FrequencyTable[S]) Each(fn func(symbol S, count uint64)) {
	for _, symbol := range ft.order {
		fn(symbol, ft.counts[symbol])
	}
}

func (ft *FrequencyTable[S]) at(index int) (S, uint64) {
	symbol := ft.order[index]
	return symbol, ft.counts[symbol]
}
