package alphabet

import (
	"fmt"
	"io"
	"math"

	"github.com/bashhack/tltp/internal/errs"
)

// Index draws an integer uniformly from [0, n) using the fewest whole bytes
// that cover n. Draws at or above the largest multiple of n are rejected and
// the next bytes are read; rejected bytes are never reused. For n <= 256 this
// is the single-byte bound floor(256/n)*n - 1, so n == 256 never rejects.
func Index(src io.ByteReader, n int) (int, error) {
	if n <= 0 || uint64(n) > math.MaxUint32 {
		return 0, errs.Config("range", fmt.Sprintf("cannot draw uniformly from %d values", n))
	}
	if n == 1 {
		return 0, nil
	}

	width := 1
	space := uint64(256)
	for space < uint64(n) {
		width++
		space <<= 8
	}
	limit := space - space%uint64(n)

	for {
		var v uint64
		for range width {
			b, err := src.ReadByte()
			if err != nil {
				return 0, errs.Crypto("reading derived stream", err)
			}
			v = v<<8 | uint64(b)
		}
		if v < limit {
			return int(v % uint64(n)), nil
		}
	}
}

// Sample draws count symbols from a, each with probability exactly 1/a.Len().
func Sample(src io.ByteReader, a Alphabet, count int) ([]rune, error) {
	if count <= 0 {
		return nil, errs.Config("size", fmt.Sprintf("must be positive, got %d", count))
	}
	if a.Len() < 2 {
		return nil, errs.Config("alphabet", "needs at least 2 symbols")
	}

	out := make([]rune, count)
	for i := range out {
		idx, err := Index(src, a.Len())
		if err != nil {
			return nil, err
		}
		out[i] = a.At(idx)
	}
	return out, nil
}

// Shuffle permutes s in place with a Fisher-Yates shuffle driven by src.
func Shuffle[T any](src io.ByteReader, s []T) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := Index(src, i+1)
		if err != nil {
			return err
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}
