// Package errs defines the error kinds surfaced by tltp.
//
// Every failure is one of three kinds: the configuration is unusable
// (ConfigError), the derivation itself cannot proceed (CryptoError), or
// something the operator typed is wrong (InputError). Callers match kinds
// with errors.Is against the sentinels or errors.As against the types.
package errs

import "errors"

var (
	// ErrConfig matches every ConfigError.
	ErrConfig = errors.New("configuration error")
	// ErrCrypto matches every CryptoError.
	ErrCrypto = errors.New("derivation error")
	// ErrInput matches every InputError.
	ErrInput = errors.New("input error")
)

// ConfigError reports an invalid interval, alphabet, size or generator.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return format(e.Field, e.Message, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// CryptoError reports a derivation that cannot be performed.
type CryptoError struct {
	Message string
	Err     error
}

func (e *CryptoError) Error() string {
	return format("", e.Message, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

func (e *CryptoError) Is(target error) bool { return target == ErrCrypto }

// InputError reports bad operator input such as an empty name or a
// mismatched confirmation.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInput }

// Config builds a ConfigError for field.
func Config(field, message string) error {
	return &ConfigError{Field: field, Message: message}
}

// Crypto builds a CryptoError wrapping cause, which may be nil.
func Crypto(message string, cause error) error {
	return &CryptoError{Message: message, Err: cause}
}

// Input builds an InputError.
func Input(message string) error {
	return &InputError{Message: message}
}

func format(field, message string, cause error) string {
	msg := message
	if field != "" {
		msg = field + ": " + msg
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
