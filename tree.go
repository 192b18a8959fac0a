package huffman

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/chronos-tachyon/assert"

	"github.com/chronos-tachyon/prefixcode/internal/options"
)

// nodeID addresses a node in a Tree.
//
// Natural (leaf) nodes are zero- or positive-valued and index the
// FrequencyTable's symbol order.  Synthetic (internal) nodes are
// negative-valued: math.MinInt32 is the 0'th synthetic node, and subsequent
// ones are assigned as consecutive integers approaching 0 from below.
// placeholderID is the unreachable leaf that pads a one-symbol tree.
type nodeID int32

const (
	firstSyntheticID = nodeID(math.MinInt32)
	placeholderID    = nodeID(math.MaxInt32)
)

func (id nodeID) isSynthetic() bool {
	return id < 0
}

type mergeRecord struct {
	left  nodeID
	right nodeID
	freq  uint64
}

// Tree is a Huffman tree built by Build.  It is immutable.
type Tree[S comparable] struct {
	freq        *FrequencyTable[S]
	merges      []mergeRecord
	root        nodeID
	maxCodeSize byte
}

// Build constructs the Huffman tree for the given frequencies by repeatedly
// merging the two lowest-frequency nodes.  Ties are broken by age: leaves in
// the FrequencyTable's first-seen order come before any synthetic node, and
// synthetic nodes are ordered by creation.  Building twice from the same
// table therefore yields the same tree.
//
// A table with a single symbol yields a root whose left child is that
// symbol and whose right child is a placeholder that no valid encoding
// reaches, so the symbol is coded as "0".
//
// Returns ErrEmptyInput if the table has no symbols.
//
func Build[S comparable](ft *FrequencyTable[S], opts ...BuildOption) (*Tree[S], error) {
	cfg := defaultBuildConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	numLeaves := ft.Len()
	if numLeaves == 0 {
		return nil, ErrEmptyInput
	}
	assert.Assertf(numLeaves < int(placeholderID), "%d symbols exceeds max %d", numLeaves, int(placeholderID)-1)

	t := &Tree[S]{
		freq:        ft,
		merges:      make([]mergeRecord, 0, numLeaves),
		maxCodeSize: cfg.maxCodeSize,
	}

	if numLeaves == 1 {
		_, count := ft.at(0)
		t.merges = append(t.merges, mergeRecord{left: 0, right: placeholderID, freq: count})
		t.root = firstSyntheticID
	} else {
		t.root = t.mergeAll()
	}

	if e := cfg.logger.Debug(); e.Enabled() {
		e.Int("symbols", numLeaves).
			Int("merges", len(t.merges)).
			Uint64("total", t.Freq()).
			Int("depth", t.Depth()).
			Msg("built huffman tree")
	}
	return t, nil
}

func (t *Tree[S]) mergeAll() nodeID {
	numLeaves := t.freq.Len()

	// Step 1: build a minheap of the natural nodes.

	h := freqHeap{list: make([]heapItem, numLeaves, 2*numLeaves)}
	for index := 0; index < numLeaves; index++ {
		_, count := t.freq.at(index)
		h.list[index] = heapItem{id: nodeID(index), freq: count, seq: uint32(index)}
	}
	h.Init()

	// Step 2: pop the two smallest, push their merge.  The first popped
	// becomes the left child.

	nextID := firstSyntheticID
	nextSeq := uint32(numLeaves)
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapItem)
		b := heap.Pop(&h).(heapItem)

		freqSum := saturatingAdd(a.freq, b.freq)
		t.merges = append(t.merges, mergeRecord{left: a.id, right: b.id, freq: freqSum})
		heap.Push(&h, heapItem{id: nextID, freq: freqSum, seq: nextSeq})
		nextID++
		nextSeq++
	}

	return heap.Pop(&h).(heapItem).id
}

// Root returns the root node.
func (t *Tree[S]) Root() Node[S] {
	return Node[S]{tree: t, id: t.root}
}

// Freq returns the root's frequency, which equals the sum of all symbol
// counts (saturating at math.MaxUint64).
func (t *Tree[S]) Freq() uint64 {
	return t.Root().Freq()
}

// Len returns the number of symbols in the tree, not counting the
// placeholder.
func (t *Tree[S]) Len() int {
	return t.freq.Len()
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree[S]) Depth() int {
	var maxDepth int
	t.walk(func(_ nodeID, depth int, _ Code) {
		if maxDepth < depth {
			maxDepth = depth
		}
	})
	return maxDepth
}

// Codes derives the CodeTable for this tree.  See Derive.
func (t *Tree[S]) Codes() (*CodeTable[S], error) {
	return Derive(t)
}

// Decode walks the tree from the root once per symbol, going left on 0 and
// right on 1, and emits a symbol on reaching a leaf.  It is equivalent to
// decoding with the tree's CodeTable.
func (t *Tree[S]) Decode(bits BitString) ([]S, error) {
	out := make([]S, 0, bits.Len()/2+1)
	cur := t.root
	start := 0
	for index := 0; index < bits.Len(); index++ {
		rec := t.merge(cur)
		if bits.At(index) == 0 {
			cur = rec.left
		} else {
			cur = rec.right
		}

		switch {
		case cur == placeholderID:
			return nil, fmt.Errorf("%w: at bit offset %d", ErrInvalidCode, start)
		case cur.isSynthetic():
			continue
		}

		symbol, _ := t.freq.at(int(cur))
		out = append(out, symbol)
		cur = t.root
		start = index + 1
	}
	if cur != t.root {
		return nil, fmt.Errorf("%w: %d trailing bits at offset %d", ErrTruncatedStream, bits.Len()-start, start)
	}
	return out, nil
}

func (t *Tree[S]) merge(id nodeID) mergeRecord {
	index := int64(id) - math.MinInt32
	assert.Assertf(id.isSynthetic() && index < int64(len(t.merges)), "node %d is not a synthetic node of this tree", id)
	return t.merges[index]
}

// walk visits every leaf, including the placeholder, in depth-first order
// (left before right).  hc is only meaningful when depth <= MaxCodeSize.
func (t *Tree[S]) walk(visit func(id nodeID, depth int, hc Code)) {
	if !t.root.isSynthetic() {
		visit(t.root, 0, Code{})
		return
	}

	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		id    nodeID
		x     byte
		depth int
		hc    Code
	}

	stack := make([]stackItem, 0, log2uint32(uint32(len(t.merges)))+1)

	processChild := func(parent stackItem, child nodeID, bit uint) {
		depth := parent.depth + 1
		hc := parent.hc
		if depth <= MaxCodeSize {
			hc = hc.Append(bit)
		}
		if child.isSynthetic() {
			stack = append(stack, stackItem{id: child, depth: depth, hc: hc})
			return
		}
		visit(child, depth, hc)
	}

	stack = append(stack, stackItem{id: t.root})
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		switch x {
		case 0:
			processChild(*top, t.merge(top.id).left, 0)
		case 1:
			processChild(*top, t.merge(top.id).right, 1)
		case 2:
			stack = stack[:len(stack)-1]
		}
	}
}

// Node is a node in a Tree: either a leaf carrying a symbol, an internal
// node with exactly two children, or the placeholder leaf of a one-symbol
// tree.
type Node[S comparable] struct {
	tree *Tree[S]
	id   nodeID
}

// Leaf returns the node's symbol and true if this is a symbol leaf.
func (n Node[S]) Leaf() (S, bool) {
	if n.id.isSynthetic() || n.id == placeholderID {
		var zero S
		return zero, false
	}
	symbol, _ := n.tree.freq.at(int(n.id))
	return symbol, true
}

// Children returns the node's children and true if this is an internal
// node.
func (n Node[S]) Children() (left Node[S], right Node[S], ok bool) {
	if !n.id.isSynthetic() {
		return Node[S]{}, Node[S]{}, false
	}
	rec := n.tree.merge(n.id)
	return Node[S]{tree: n.tree, id: rec.left}, Node[S]{tree: n.tree, id: rec.right}, true
}

// IsPlaceholder returns true for the unreachable leaf of a one-symbol tree.
func (n Node[S]) IsPlaceholder() bool {
	return n.id == placeholderID
}

// Freq returns the node's frequency: the symbol count for a leaf, the sum
// of the children for an internal node, and 0 for the placeholder.
func (n Node[S]) Freq() uint64 {
	switch {
	case n.id == placeholderID:
		return 0
	case n.id.isSynthetic():
		return n.tree.merge(n.id).freq
	default:
		_, count := n.tree.freq.at(int(n.id))
		return count
	}
}

// type heapItem + type freqHeap {{{

type heapItem struct {
	id   nodeID
	freq uint64
	seq  uint32
}

type freqHeap struct {
	list []heapItem
}

func (h *freqHeap) Init() {
	heap.Init(h)
}

func (h *freqHeap) Len() int {
	return len(h.list)
}

func (h *freqHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *freqHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.seq < b.seq
}

func (h *freqHeap) Push(x interface{}) {
	h.list = append(h.list, x.(heapItem))
}

func (h *freqHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*freqHeap)(nil)

// }}}
