package generator

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/tltp/internal/errs"
)

// mockGenerator implements Generator for testing
type mockGenerator struct {
	out string
}

func (g *mockGenerator) Generate(src io.ByteReader, size int) (string, error) {
	return g.out, nil
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	gen1 := &mockGenerator{out: "one"}
	gen2 := &mockGenerator{out: "two"}

	require.NoError(t, registry.Register("acme:one", "first", gen1))
	require.NoError(t, registry.Register("acme:two", "second", gen2))

	g, err := registry.Resolve("acme:one")
	require.NoError(t, err)
	assert.Same(t, gen1, g)

	g, err = registry.Resolve("acme:two")
	require.NoError(t, err)
	assert.Same(t, gen2, g)

	// Re-registering replaces the implementation
	require.NoError(t, registry.Register("acme:one", "replaced", gen2))
	g, err = registry.Resolve("acme:one")
	require.NoError(t, err)
	assert.Same(t, gen2, g)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := NewRegistry()

	tests := map[string]struct {
		ref string
		gen Generator
	}{
		"missing colon":    {ref: "acme.one", gen: &mockGenerator{}},
		"missing package":  {ref: ":one", gen: &mockGenerator{}},
		"missing function": {ref: "acme:", gen: &mockGenerator{}},
		"nil generator":    {ref: "acme:nil", gen: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := registry.Register(tt.ref, "", tt.gen)
			assert.ErrorIs(t, err, errs.ErrConfig)
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	registry := NewDefaultRegistry()

	tests := map[string]struct {
		ref     string
		wantErr bool
		errMsg  string
	}{
		"default":        {ref: DefaultRef},
		"complex":        {ref: "tltp:disa"},
		"classes":        {ref: "tltp:classes"},
		"alnum":          {ref: "tltp:alnum"},
		"digits":         {ref: "tltp:digits"},
		"unknown":        {ref: "tltp:nope", wantErr: true, errMsg: `generator "tltp:nope" not found`},
		"bad specifier":  {ref: "tltp", wantErr: true, errMsg: "invalid generator function specifier"},
		"empty":          {ref: "", wantErr: true, errMsg: "invalid generator function specifier"},
		"python style":   {ref: "foo.bar:baz", wantErr: true, errMsg: "not found"},
		"colon in func":  {ref: "a:b:c", wantErr: true, errMsg: "not found"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g, err := registry.Resolve(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, g)
		})
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	assert.Empty(t, registry.List())

	entries := NewDefaultRegistry().List()
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Ref)
		assert.NotEmpty(t, e.Description)
	}

	assert.Equal(t, []string{"tltp:alnum", "tltp:classes", DefaultRef, "tltp:digits", "tltp:disa"}, refs)
}

func TestParseRef(t *testing.T) {
	pkg, fn, err := ParseRef("acme.corp:strict")
	require.NoError(t, err)
	assert.Equal(t, "acme.corp", pkg)
	assert.Equal(t, "strict", fn)
}
