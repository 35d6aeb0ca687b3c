package prompt

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/tltp/internal/errs"
)

// fakeReader returns queued answers in order
type fakeReader struct {
	answers []string
	err      error
	labels   []string
	returned [][]byte
}

func (f *fakeReader) ReadSecret(label string) ([]byte, error) {
	f.labels = append(f.labels, label)
	if f.err != nil {
		return nil, f.err
	}
	b := []byte(f.answers[0])
	f.answers = f.answers[1:]
	f.returned = append(f.returned, b)
	return b, nil
}

func TestReadMaster(t *testing.T) {
	tests := map[string]struct {
		answers    []string
		confirm    bool
		want       string
		wantLabels []string
		wantErr    error
	}{
		"single entry": {
			answers:    []string{"hunter2"},
			want:       "hunter2",
			wantLabels: []string{secretPrompt},
		},
		"confirmed": {
			answers:    []string{"hunter2", "hunter2"},
			confirm:    true,
			want:       "hunter2",
			wantLabels: []string{secretPrompt, confirmPrompt},
		},
		"mismatch": {
			answers:    []string{"hunter2", "hunter3"},
			confirm:    true,
			wantLabels: []string{secretPrompt, confirmPrompt},
			wantErr:    errs.ErrInput,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &fakeReader{answers: tt.answers}
			got, err := ReadMaster(r, tt.confirm)

			assert.Equal(t, tt.wantLabels, r.labels)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestReadMasterWipesEntries(t *testing.T) {
	tests := map[string]struct {
		answers   []string
		wantWiped []bool
	}{
		"confirmed keeps the first entry": {
			answers:   []string{"hunter2", "hunter2"},
			wantWiped: []bool{false, true},
		},
		"mismatch wipes both entries": {
			answers:   []string{"hunter2", "hunter3"},
			wantWiped: []bool{true, true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &fakeReader{answers: tt.answers}
			_, _ = ReadMaster(r, true)

			require.Len(t, r.returned, len(tt.wantWiped))
			for i, b := range r.returned {
				wiped := bytes.Count(b, []byte{0}) == len(b)
				assert.Equal(t, tt.wantWiped[i], wiped, "entry %d = %q", i, b)
			}
		})
	}
}

func TestReadMasterReaderError(t *testing.T) {
	boom := errors.New("tty closed")
	_, err := ReadMaster(&fakeReader{err: boom}, true)
	assert.ErrorIs(t, err, boom)
}

func TestTerminalPiped(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.WriteString("first secret\r\nsecond")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	term := NewTerminal(r, &out)

	first, err := term.ReadSecret(secretPrompt)
	require.NoError(t, err)
	assert.Equal(t, "first secret", string(first))

	second, err := term.ReadSecret(confirmPrompt)
	require.NoError(t, err)
	assert.Equal(t, "second", string(second))

	_, err = term.ReadSecret(secretPrompt)
	assert.Error(t, err)

	assert.Equal(t, secretPrompt+confirmPrompt+secretPrompt, out.String())
}

func TestTerminalNoEcho(t *testing.T) {
	origReadPassword := readPassword
	origIsTerminal := isTerminal
	defer func() {
		readPassword = origReadPassword
		isTerminal = origIsTerminal
	}()

	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("typed"), nil }

	var out bytes.Buffer
	got, err := NewTerminal(os.Stdin, &out).ReadSecret(secretPrompt)
	require.NoError(t, err)
	assert.Equal(t, "typed", string(got))
	assert.Equal(t, secretPrompt+"\n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = NewTerminal(os.Stdin, &out).ReadSecret(secretPrompt)
	assert.ErrorContains(t, err, "failed to read secret")
}
