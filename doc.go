// Package huffman builds optimal prefix-free codes from symbol frequencies
// and uses them to encode and decode symbol sequences.
//
// The pipeline is Count → Build → Derive → {Encode, Decode}:
//
//     bits, codes, err := huffman.EncodeAll([]string{"A", "A", "B", "C", "C", "C"})
//     ...
//     symbols, err := huffman.Decode(bits, codes)
//
// Symbols may be any comparable type.  Codes are not canonicalized, and the
// encoded output is a logical BitString rather than packed bytes; callers
// that persist it must also persist the CodeTable.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
