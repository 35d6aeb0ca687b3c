// Package secure limits how long master secrets and derived key material
// stay readable in memory.
//
// IMPORTANT SECURITY NOTE:
// Go's memory model and garbage collection make secure memory management
// challenging. The functions in this package reduce the exposure window of
// sensitive data, but they cannot guarantee complete removal from memory:
//
// 1. Go's garbage collector can move and copy data
// 2. Go strings are immutable, so a password held as a string cannot be wiped
// 3. Memory might be paged to disk outside of Go's control
//
// Secrets therefore travel as []byte from the terminal to the KDF and are
// zeroed as soon as the derivation returns.
package secure

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites data with zeros in a way the compiler will not elide.
func Zero(data []byte) {
	if len(data) == 0 {
		return
	}

	clear(data)

	// Keep data reachable until after the clear so the store is not dropped.
	runtime.KeepAlive(data)
}

// ZeroAll zeroes several byte slices at once.
func ZeroAll(slices ...[]byte) {
	for _, b := range slices {
		Zero(b)
	}
}

// Clone returns a private copy of data that the caller must Zero.
func Clone(data []byte) []byte {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// Equal compares two secrets in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// TrimNewline strips a trailing "\n" or "\r\n" in place, for secrets read
// from a pipe rather than a terminal.
func TrimNewline(data []byte) []byte {
	n := len(data)
	if n > 0 && data[n-1] == '\n' {
		n--
		if n > 0 && data[n-1] == '\r' {
			n--
		}
	}
	trimmed := data[:n]
	Zero(data[n:])
	return trimmed
}
