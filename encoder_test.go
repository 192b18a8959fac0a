package huffman

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func makeTestCodeTable(t *testing.T) *CodeTable[int] {
	t.Helper()
	ft, err := NewFrequencyTable(
		Frequency[int]{0, 5},
		Frequency[int]{1, 9},
		Frequency[int]{2, 12},
		Frequency[int]{3, 13},
		Frequency[int]{4, 16},
		Frequency[int]{5, 45},
	)
	require.NoError(t, err)
	tree, err := Build(ft)
	require.NoError(t, err)
	codes, err := Derive(tree)
	require.NoError(t, err)
	return codes
}

func TestCodeTable_Dump(t *testing.T) {
	codes := makeTestCodeTable(t)

	expectDump := strings.Join([]string{
		"CodeTable{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tEncode(0) = \"1100\"\n",
		"\tEncode(1) = \"1101\"\n",
		"\tEncode(2) = \"100\"\n",
		"\tEncode(3) = \"101\"\n",
		"\tEncode(4) = \"111\"\n",
		"\tEncode(5) = \"0\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = codes.Dump(&buf)
	actualDump := buf.String()

	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}
}

func TestCodeTable_EncodedSize(t *testing.T) {
	ft := Count([]string{"A", "A", "B", "C", "C", "C"})
	tree, err := Build(ft)
	require.NoError(t, err)
	codes, err := Derive(tree)
	require.NoError(t, err)

	size, err := codes.EncodedSize(ft)
	require.NoError(t, err)
	require.Equal(t, uint64(9), size)

	_, err = codes.EncodedSize(Count([]string{"Z"}))
	require.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestCodeTable_EncodedSize_Saturates(t *testing.T) {
	ft, err := NewFrequencyTable(
		Frequency[string]{"a", 1 << 63},
		Frequency[string]{"b", 1 << 63},
		Frequency[string]{"c", 1 << 63},
	)
	require.NoError(t, err)
	tree, err := Build(ft)
	require.NoError(t, err)
	codes, err := Derive(tree)
	require.NoError(t, err)

	hc, _ := codes.Lookup("a")
	require.Equal(t, byte(2), hc.Size)

	size, err := codes.EncodedSize(ft)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), size)
}

func TestDerive_ConcreteScenario(t *testing.T) {
	input := []string{"A", "A", "B", "C", "C", "C"}
	bits, codes, err := EncodeAll(input)
	require.NoError(t, err)

	lengths := make(map[string]byte)
	codes.Each(func(symbol string, hc Code) {
		lengths[symbol] = hc.Size
	})
	if diff := cmp.Diff(map[string]byte{"A": 2, "B": 2, "C": 1}, lengths); diff != "" {
		t.Errorf("code lengths mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, 9, bits.Len())
	require.Equal(t, "111110000", bits.Text())

	decoded, err := Decode(bits, codes)
	require.NoError(t, err)
	require.Equal(t, input, decoded)
}

func TestDerive_SingleSymbol(t *testing.T) {
	bits, codes, err := EncodeAll([]string{"A"})
	require.NoError(t, err)

	hc, found := codes.Lookup("A")
	require.True(t, found)
	require.Equal(t, "0", hc.Text())
	require.Equal(t, "0", bits.Text())

	bits, codes, err = EncodeAll([]string{"A", "A", "A"})
	require.NoError(t, err)
	require.Equal(t, "000", bits.Text())

	decoded, err := Decode(bits, codes)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "A", "A"}, decoded)
}

func TestEncode_UnknownSymbol(t *testing.T) {
	_, codes, err := EncodeAll([]string{"A", "B"})
	require.NoError(t, err)

	_, err = Encode([]string{"A", "B", "Q"}, codes)
	require.ErrorIs(t, err, ErrUnknownSymbol)
	require.Contains(t, err.Error(), "Q at position 2")
}

func TestEncode_Empty(t *testing.T) {
	_, codes, err := EncodeAll([]string{"A", "B"})
	require.NoError(t, err)

	bits, err := Encode(nil, codes)
	require.NoError(t, err)
	require.Zero(t, bits.Len())

	_, _, err = EncodeAll([]string{})
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestNewCodeTable(t *testing.T) {
	zero, err := ParseCode("0")
	require.NoError(t, err)
	one, err := ParseCode("1")
	require.NoError(t, err)

	codes, err := NewCodeTable(
		CodeEntry[string]{Symbol: "x", Code: zero},
		CodeEntry[string]{Symbol: "y", Code: one},
	)
	require.NoError(t, err)
	require.Equal(t, 2, codes.Len())
	require.Equal(t, []string{"x", "y"}, codes.Symbols())

	_, err = NewCodeTable(CodeEntry[string]{Symbol: "x"})
	require.ErrorIs(t, err, ErrEmptyCode)

	_, err = NewCodeTable(
		CodeEntry[string]{Symbol: "x", Code: zero},
		CodeEntry[string]{Symbol: "x", Code: one},
	)
	require.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestCodeTable_JSON(t *testing.T) {
	_, codes, err := EncodeAll([]string{"A", "A", "B", "C", "C", "C"})
	require.NoError(t, err)

	raw, err := json.Marshal(codes)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"symbol": "A", "code": "11"},
		{"symbol": "B", "code": "10"},
		{"symbol": "C", "code": "0"}
	]`, string(raw))

	var decoded CodeTable[string]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, codes.Entries(), decoded.Entries())
	require.Equal(t, codes.Fingerprint(), decoded.Fingerprint())
	require.Equal(t, codes.MinSize(), decoded.MinSize())
	require.Equal(t, codes.MaxSize(), decoded.MaxSize())

	err = decoded.UnmarshalJSON([]byte(`[{"symbol": "A", "code": ""}]`))
	require.ErrorIs(t, err, ErrEmptyCode)
}

func TestCodeTable_Fingerprint(t *testing.T) {
	input := []rune("abracadabra")

	_, first, err := EncodeAll(input)
	require.NoError(t, err)
	_, second, err := EncodeAll(input)
	require.NoError(t, err)
	require.Equal(t, first.Fingerprint(), second.Fingerprint())

	_, other, err := EncodeAll([]rune("abracadabrax"))
	require.NoError(t, err)
	require.NotEqual(t, first.Fingerprint(), other.Fingerprint())
}

func TestCodeTable_Fingerprint_Framing(t *testing.T) {
	zero, err := ParseCode("0")
	require.NoError(t, err)
	one, err := ParseCode("1")
	require.NoError(t, err)

	split, err := NewCodeTable(
		CodeEntry[string]{Symbol: "p", Code: zero},
		CodeEntry[string]{Symbol: "q", Code: one},
	)
	require.NoError(t, err)
	joined, err := NewCodeTable(
		CodeEntry[string]{Symbol: "p\x000\x00q", Code: one},
	)
	require.NoError(t, err)
	require.NotEqual(t, split.Fingerprint(), joined.Fingerprint())

	shifted, err := NewCodeTable(
		CodeEntry[string]{Symbol: "p1", Code: zero},
	)
	require.NoError(t, err)
	pOne, err := NewCodeTable(
		CodeEntry[string]{Symbol: "p", Code: MakeCode(2, 0)},
	)
	require.NoError(t, err)
	require.NotEqual(t, shifted.Fingerprint(), pOne.Fingerprint())
}
