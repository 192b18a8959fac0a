package huffman

import "errors"

var (
	// ErrEmptyInput is returned when building a tree from a table with no
	// symbols.
	ErrEmptyInput = errors.New("huffman: no symbols to build a tree from")

	// ErrUnknownSymbol is returned when encoding a symbol that has no entry
	// in the code table.
	ErrUnknownSymbol = errors.New("huffman: symbol not in code table")

	// ErrTruncatedStream is returned when the input ends partway through
	// a code.
	ErrTruncatedStream = errors.New("huffman: bit stream ends mid-code")

	// ErrAmbiguousCode is returned when a code table maps two symbols to
	// the same code, or one code is a prefix of another.
	ErrAmbiguousCode = errors.New("huffman: ambiguous code table")

	// ErrInvalidCode is returned when the bits seen so far cannot be
	// extended into any code in the table.
	ErrInvalidCode = errors.New("huffman: bit sequence matches no code")

	// ErrCodeTooLong is returned when a code would exceed the configured
	// maximum code size.
	ErrCodeTooLong = errors.New("huffman: code too long")

	ErrZeroFrequency   = errors.New("huffman: frequency must be positive")
	ErrDuplicateSymbol = errors.New("huffman: duplicate symbol")
	ErrEmptyCode       = errors.New("huffman: code must be at least one bit")
	ErrInvalidBit      = errors.New("huffman: invalid bit character")
)
