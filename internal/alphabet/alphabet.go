// Package alphabet maps a uniform byte stream onto a finite set of symbols
// without modulo bias.
package alphabet

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bashhack/tltp/internal/errs"
)

// Character classes used by the built-in generators.
const (
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits  = "0123456789"
	Symbols = `~!@#$%^&*()-=[]\{}|;:'",./<>?`
)

// MaxSize is the largest alphabet a single byte can address uniformly.
const MaxSize = 256

// Alphabet is an ordered set of unique symbols. The order fixes which
// symbol each sampled index maps to.
type Alphabet struct {
	symbols []rune
}

// New validates symbols in the order given.
func New(symbols string) (Alphabet, error) {
	if !utf8.ValidString(symbols) {
		return Alphabet{}, errs.Config("alphabet", "must be valid UTF-8")
	}
	return FromRunes([]rune(symbols))
}

// FromRunes validates and copies runes.
func FromRunes(runes []rune) (Alphabet, error) {
	if len(runes) < 2 {
		return Alphabet{}, errs.Config("alphabet", fmt.Sprintf("needs at least 2 symbols, got %d", len(runes)))
	}
	if len(runes) > MaxSize {
		return Alphabet{}, errs.Config("alphabet", fmt.Sprintf("supports at most %d symbols, got %d", MaxSize, len(runes)))
	}

	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, dup := seen[r]; dup {
			return Alphabet{}, errs.Config("alphabet", fmt.Sprintf("symbol %q appears more than once", r))
		}
		seen[r] = struct{}{}
	}

	return Alphabet{symbols: slices.Clone(runes)}, nil
}

// Must is New for package-level alphabets known to be valid.
func Must(symbols string) Alphabet {
	a, err := New(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse reads an alphabet as typed on the command line: whitespace is
// ignored and symbols are sorted, so "cba" and "a b c" name the same
// alphabet and therefore the same passwords.
func Parse(list string) (Alphabet, error) {
	if !utf8.ValidString(list) {
		return Alphabet{}, errs.Config("alphabet", "must be valid UTF-8")
	}
	runes := []rune(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, list))
	slices.Sort(runes)
	return FromRunes(runes)
}

// Len returns the number of symbols.
func (a Alphabet) Len() int { return len(a.symbols) }

// At returns the symbol at index i.
func (a Alphabet) At(i int) rune { return a.symbols[i] }

// Contains reports whether r is one of the symbols.
func (a Alphabet) Contains(r rune) bool { return slices.Contains(a.symbols, r) }

// Runes returns a copy of the symbols.
func (a Alphabet) Runes() []rune { return slices.Clone(a.symbols) }

func (a Alphabet) String() string { return string(a.symbols) }
