package alphabet

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/tltp/internal/errs"
)

func allBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func runesOfSize(n int) string {
	var sb strings.Builder
	for i := range n {
		sb.WriteRune(rune(0x100 + i))
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		symbols string
		wantErr bool
	}{
		"two symbols":   {symbols: "ab"},
		"alphanumeric":  {symbols: Lower + Upper + Digits},
		"multibyte":     {symbols: "äöü€"},
		"exactly 256":   {symbols: runesOfSize(256)},
		"empty":         {symbols: "", wantErr: true},
		"single symbol": {symbols: "a", wantErr: true},
		"duplicate":     {symbols: "abca", wantErr: true},
		"257 symbols":   {symbols: runesOfSize(257), wantErr: true},
		"invalid utf8":  {symbols: "ab\xff", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, err := New(tt.symbols)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.symbols, a.String())
		})
	}
}

func TestParse(t *testing.T) {
	a, err := Parse("c b a\n1 0")
	require.NoError(t, err)
	assert.Equal(t, "01abc", a.String())

	b, err := Parse("ab01c")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	_, err = Parse("a a")
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = Parse("   ")
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestAlphabetAccessors(t *testing.T) {
	a := Must("xyz")
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 'y', a.At(1))
	assert.True(t, a.Contains('z'))
	assert.False(t, a.Contains('a'))

	r := a.Runes()
	r[0] = 'q'
	assert.Equal(t, 'x', a.At(0), "Runes must return a copy")

	assert.Panics(t, func() { Must("a") })
}

func TestSampleExactlyUniformOverOnePass(t *testing.T) {
	// 256 = 4*62 + 8: bytes 0..247 are accepted and each residue appears
	// exactly four times; 248..255 would be rejected.
	a := Must(Lower + Upper + Digits)
	src := bytes.NewReader(allBytes())

	out, err := Sample(src, a, 248)
	require.NoError(t, err)

	counts := map[rune]int{}
	for _, r := range out {
		counts[r]++
	}
	require.Len(t, counts, 62)
	for r, c := range counts {
		assert.Equal(t, 4, c, "symbol %q", r)
	}
	assert.Equal(t, 8, src.Len(), "only the accepted bytes should be consumed")
}

func TestSampleRejectsBiasedBytes(t *testing.T) {
	a := Must("abc") // accept 0..254, reject 255
	src := bytes.NewReader([]byte{255, 255, 4, 255, 2})

	out, err := Sample(src, a, 2)
	require.NoError(t, err)
	assert.Equal(t, "bc", string(out))
	assert.Zero(t, src.Len())
}

func TestSampleFullByteNeverRejects(t *testing.T) {
	a := Must(runesOfSize(256))
	src := bytes.NewReader(allBytes())

	out, err := Sample(src, a, 256)
	require.NoError(t, err)
	for i, r := range out {
		assert.Equal(t, a.At(i), r)
	}
	assert.Zero(t, src.Len())
}

func TestSampleStatisticalUniformity(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	a := Must(Lower + Upper + Digits)
	const perSymbol = 2000
	out, err := Sample(bufio.NewReader(rand.Reader), a, a.Len()*perSymbol)
	require.NoError(t, err)

	counts := make([]int, a.Len())
	for _, r := range out {
		idx := slices.Index(a.Runes(), r)
		require.GreaterOrEqual(t, idx, 0, "symbol %q not in alphabet", r)
		counts[idx]++
	}

	// sigma is about 44; allow roughly seven of them.
	for i, c := range counts {
		assert.InDelta(t, perSymbol, c, 300, "symbol %q", a.At(i))
	}
}

func TestSampleErrors(t *testing.T) {
	a := Must("ab")

	_, err := Sample(bytes.NewReader(allBytes()), a, 0)
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = Sample(bytes.NewReader(allBytes()), Alphabet{}, 3)
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = Sample(bytes.NewReader([]byte{1}), a, 2)
	assert.ErrorIs(t, err, errs.ErrCrypto)
}

func TestSampleSizeOne(t *testing.T) {
	a := Must(Digits)
	out, err := Sample(bytes.NewReader([]byte{42}), a, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))
}

func TestIndexMultiByte(t *testing.T) {
	// n=1000 needs two bytes; 65535 >= 65000 is rejected.
	src := bytes.NewReader([]byte{0xff, 0xff, 0x00, 0x05})
	got, err := Index(src, 1000)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Zero(t, src.Len())

	got, err = Index(bytes.NewReader(nil), 1)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = Index(bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestShuffle(t *testing.T) {
	s := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, Shuffle(bufio.NewReader(rand.Reader), s))

	sorted := slices.Clone(s)
	slices.Sort(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)

	a := []rune("abcdef")
	b := []rune("abcdef")
	require.NoError(t, Shuffle(bytes.NewReader(allBytes()), a))
	require.NoError(t, Shuffle(bytes.NewReader(allBytes()), b))
	assert.Equal(t, a, b, "same stream must give the same permutation")
}
