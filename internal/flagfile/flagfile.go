// Package flagfile loads default command line arguments from a file named by
// the TLTP_FLAGFILE environment variable.
package flagfile

import (
	"fmt"
	"io"
	"os"

	"github.com/google/shlex"

	"github.com/bashhack/tltp/internal/errs"
)

// EnvVar names the environment variable holding the flag file path.
const EnvVar = "TLTP_FLAGFILE"

// Variables to allow testing
var (
	getenv   = os.Getenv
	openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }
)

// Parse splits r with shell quoting rules. Line endings of either kind
// separate words like any other whitespace.
func Parse(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	words, err := shlex.Split(string(data))
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Expand returns args with the flag file's words placed in front of them, so
// explicit arguments override the file. When EnvVar is unset args is
// returned unchanged.
func Expand(args []string) ([]string, error) {
	path := getenv(EnvVar)
	if path == "" {
		return args, nil
	}

	f, err := openFile(path)
	if err != nil {
		return nil, &errs.ConfigError{Field: EnvVar, Message: "cannot open flag file", Err: err}
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil, &errs.ConfigError{Field: EnvVar, Message: fmt.Sprintf("cannot parse %s", path), Err: err}
	}

	out := make([]string, 0, len(words)+len(args))
	out = append(out, words...)
	return append(out, args...), nil
}
