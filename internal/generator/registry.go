package generator

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bashhack/tltp/internal/alphabet"
	"github.com/bashhack/tltp/internal/errs"
)

// DefaultRef names the generator used when neither an alphabet nor a
// generator reference is configured.
const DefaultRef = "tltp:default"

// Entry describes a registered generator.
type Entry struct {
	Ref         string
	Description string
	Generator   Generator
}

// Registry resolves "package:function" references to generators.
type Registry struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// NewDefaultRegistry creates a registry holding the built-in generators.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	classes, err := NewClasses(
		alphabet.Must(alphabet.Lower),
		alphabet.Must(alphabet.Upper),
		alphabet.Must(alphabet.Digits),
		alphabet.Must(alphabet.Symbols),
	)
	if err != nil {
		panic(err)
	}

	builtins := []Entry{
		{DefaultRef, "letters, digits and punctuation, uniformly sampled", NewUniform(alphabet.Must(alphabet.Lower + alphabet.Upper + alphabet.Digits + alphabet.Symbols))},
		{"tltp:disa", "no more than 4 of a class or 3 of a symbol in a row", NewComplex()},
		{"tltp:classes", "at least one lower, upper, digit and symbol", classes},
		{"tltp:alnum", "letters and digits only", NewUniform(alphabet.Must(alphabet.Lower + alphabet.Upper + alphabet.Digits))},
		{"tltp:digits", "numeric PIN", NewUniform(alphabet.Must(alphabet.Digits))},
	}
	for _, e := range builtins {
		if err := r.Register(e.Ref, e.Description, e.Generator); err != nil {
			panic(err)
		}
	}

	return r
}

// ParseRef splits a "package:function" reference.
func ParseRef(ref string) (pkg, fn string, err error) {
	pkg, fn, ok := strings.Cut(ref, ":")
	if !ok || pkg == "" || fn == "" {
		return "", "", errs.Config("generator", fmt.Sprintf("invalid generator function specifier %q (want package:function)", ref))
	}
	return pkg, fn, nil
}

// Register adds or replaces the generator for ref.
func (r *Registry) Register(ref, description string, g Generator) error {
	if _, _, err := ParseRef(ref); err != nil {
		return err
	}
	if g == nil {
		return errs.Config("generator", fmt.Sprintf("%q has no implementation", ref))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[ref] = Entry{Ref: ref, Description: description, Generator: g}
	return nil
}

// Resolve returns the generator registered for ref.
func (r *Registry) Resolve(ref string) (Generator, error) {
	if _, _, err := ParseRef(ref); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[ref]
	if !ok {
		return nil, errs.Config("generator", fmt.Sprintf("generator %q not found", ref))
	}
	return e.Generator, nil
}

// List returns all registered generators ordered by reference.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b Entry) int { return strings.Compare(a.Ref, b.Ref) })

	return result
}
