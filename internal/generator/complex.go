package generator

import (
	"io"
	"slices"

	"github.com/bashhack/tltp/internal/alphabet"
)

const (
	maxClassRun = 4
	maxCharRun  = 3
)

// Complex draws each position from the full printable set minus whatever
// would break the run limits: no more than four consecutive symbols of one
// class and no more than three consecutive copies of one symbol. These are
// the DISA STIG complexity rules many organizations inherit.
type Complex struct {
	classes [][]rune
	full    []rune
}

// Ensure Complex implements Generator and SizeValidator
var (
	_ Generator     = (*Complex)(nil)
	_ SizeValidator = (*Complex)(nil)
)

// NewComplex returns the run-limited generator over lower, upper, digit and
// symbol classes.
func NewComplex() *Complex {
	classes := [][]rune{
		[]rune(alphabet.Lower),
		[]rune(alphabet.Upper),
		[]rune(alphabet.Digits),
		[]rune(alphabet.Symbols),
	}

	var full []rune
	for _, c := range classes {
		full = append(full, c...)
	}
	slices.Sort(full)

	return &Complex{classes: classes, full: full}
}

// allowed returns the symbols that may follow prior, in sorted order.
func (c *Complex) allowed(prior []rune) []rune {
	var banned []rune

	if len(prior) >= maxClassRun {
		tail := prior[len(prior)-maxClassRun:]
		for _, class := range c.classes {
			if containsAll(class, tail) {
				banned = append(banned, class...)
			}
		}
	}

	if len(prior) >= maxCharRun {
		tail := prior[len(prior)-maxCharRun:]
		if allEqual(tail) {
			banned = append(banned, tail[0])
		}
	}

	if len(banned) == 0 {
		return c.full
	}
	return slices.DeleteFunc(slices.Clone(c.full), func(r rune) bool {
		return slices.Contains(banned, r)
	})
}

// ValidateSize implements SizeValidator.
func (c *Complex) ValidateSize(size int) error {
	return validatePositive(size)
}

// Generate implements Generator.
func (c *Complex) Generate(src io.ByteReader, size int) (string, error) {
	if err := c.ValidateSize(size); err != nil {
		return "", err
	}

	out := make([]rune, 0, size)
	for range size {
		set := c.allowed(out)
		idx, err := alphabet.Index(src, len(set))
		if err != nil {
			return "", err
		}
		out = append(out, set[idx])
	}
	return string(out), nil
}

func containsAll(set, runes []rune) bool {
	for _, r := range runes {
		if !slices.Contains(set, r) {
			return false
		}
	}
	return true
}

func allEqual(runes []rune) bool {
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}
