// Package generator turns a derived byte stream into a password.
//
// A Generator must be a deterministic function of the bytes it reads and the
// requested size, and must return exactly size symbols. Whatever complexity
// rule a generator claims to enforce is its own contract; callers only check
// the length. Generators are shared between concurrent derivations, each
// with its own stream, so they must not keep per-call state.
package generator

import (
	"fmt"
	"io"

	"github.com/bashhack/tltp/internal/alphabet"
	"github.com/bashhack/tltp/internal/errs"
)

// Generator produces a password of size symbols from src.
type Generator interface {
	Generate(src io.ByteReader, size int) (string, error)
}

// SizeValidator is implemented by generators that can reject a size up
// front, before any key material is derived.
type SizeValidator interface {
	ValidateSize(size int) error
}

// ValidateSize checks size against g when g implements SizeValidator.
func ValidateSize(g Generator, size int) error {
	if v, ok := g.(SizeValidator); ok {
		return v.ValidateSize(size)
	}
	return nil
}

func validatePositive(size int) error {
	if size <= 0 {
		return errs.Config("size", fmt.Sprintf("must be positive, got %d", size))
	}
	return nil
}

// Func adapts a plain function to Generator.
type Func func(src io.ByteReader, size int) (string, error)

// Generate calls f.
func (f Func) Generate(src io.ByteReader, size int) (string, error) {
	return f(src, size)
}

// Uniform samples every position from one alphabet.
type Uniform struct {
	alphabet alphabet.Alphabet
}

// Ensure Uniform implements Generator and SizeValidator
var (
	_ Generator     = (*Uniform)(nil)
	_ SizeValidator = (*Uniform)(nil)
)

// NewUniform returns a generator drawing uniformly from a.
func NewUniform(a alphabet.Alphabet) *Uniform {
	return &Uniform{alphabet: a}
}

// Generate implements Generator.
func (u *Uniform) Generate(src io.ByteReader, size int) (string, error) {
	out, err := alphabet.Sample(src, u.alphabet, size)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ValidateSize implements SizeValidator.
func (u *Uniform) ValidateSize(size int) error {
	return validatePositive(size)
}

// Alphabet returns the symbols the generator draws from.
func (u *Uniform) Alphabet() alphabet.Alphabet { return u.alphabet }

// Classes guarantees one symbol from each character class by reserving a
// position per class, filling the rest from the union of all classes, and
// shuffling the result with the same stream.
type Classes struct {
	sets  []alphabet.Alphabet
	union alphabet.Alphabet
}

// Ensure Classes implements Generator and SizeValidator
var (
	_ Generator     = (*Classes)(nil)
	_ SizeValidator = (*Classes)(nil)
)

// NewClasses builds a Classes generator. The classes must be disjoint.
func NewClasses(sets ...alphabet.Alphabet) (*Classes, error) {
	if len(sets) == 0 {
		return nil, errs.Config("generator", "at least one character class is required")
	}

	var all []rune
	for _, s := range sets {
		all = append(all, s.Runes()...)
	}
	union, err := alphabet.FromRunes(all)
	if err != nil {
		return nil, fmt.Errorf("character classes must be disjoint: %w", err)
	}

	return &Classes{sets: sets, union: union}, nil
}

// ValidateSize implements SizeValidator. Every class needs a position.
func (c *Classes) ValidateSize(size int) error {
	if size < len(c.sets) {
		return errs.Config("size", fmt.Sprintf("must be at least %d to include every character class, got %d", len(c.sets), size))
	}
	return nil
}

// Generate implements Generator.
func (c *Classes) Generate(src io.ByteReader, size int) (string, error) {
	if err := c.ValidateSize(size); err != nil {
		return "", err
	}

	out := make([]rune, 0, size)
	for _, set := range c.sets {
		r, err := alphabet.Sample(src, set, 1)
		if err != nil {
			return "", err
		}
		out = append(out, r[0])
	}

	if rest := size - len(c.sets); rest > 0 {
		r, err := alphabet.Sample(src, c.union, rest)
		if err != nil {
			return "", err
		}
		out = append(out, r...)
	}

	if err := alphabet.Shuffle(src, out); err != nil {
		return "", err
	}
	return string(out), nil
}
