package kdf

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"

	"github.com/bashhack/tltp/internal/errs"
)

// Algorithm names a password stretching function.
type Algorithm string

const (
	// Scrypt is the default stretching function.
	Scrypt Algorithm = "scrypt"
	// Argon2id is the memory-hard alternative from the Password Hashing Competition.
	Argon2id Algorithm = "argon2id"
)

const (
	// KeySize is the length of the stretched key and of each stream block.
	KeySize = 32

	// ScryptN is the CPU/memory cost parameter (N).
	ScryptN = 1 << 14
	// ScryptR is the block size parameter (r).
	ScryptR = 14
	// ScryptP is the parallelization parameter (p).
	ScryptP = 1

	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Params selects a stretching function and its cost. Changing any field
// changes every derived password, so the defaults are fixed.
type Params struct {
	Algorithm Algorithm

	// scrypt
	N, R, P int

	// argon2id; Memory is in KiB
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams returns the production parameters for alg.
func DefaultParams(alg Algorithm) (Params, error) {
	switch alg {
	case Scrypt, "":
		return Params{Algorithm: Scrypt, N: ScryptN, R: ScryptR, P: ScryptP}, nil
	case Argon2id:
		return Params{Algorithm: Argon2id, Time: argonTime, Memory: argonMemory, Threads: argonThreads}, nil
	default:
		return Params{}, errs.Config("kdf", fmt.Sprintf("unknown algorithm %q (want %s or %s)", alg, Scrypt, Argon2id))
	}
}

// String describes the parameters without any key material.
func (p Params) String() string {
	switch p.Algorithm {
	case Argon2id:
		return fmt.Sprintf("argon2id(t=%d,m=%d,p=%d)", p.Time, p.Memory, p.Threads)
	default:
		return fmt.Sprintf("scrypt(N=%d,r=%d,p=%d)", p.N, p.R, p.P)
	}
}

// stretch turns the secret into KeySize pseudorandom bytes salted by the
// derivation context.
func stretch(secret, salt []byte, p Params) ([]byte, error) {
	switch p.Algorithm {
	case Scrypt, "":
		key, err := scrypt.Key(secret, salt, p.N, p.R, p.P, KeySize)
		if err != nil {
			return nil, errs.Crypto("scrypt failed", err)
		}
		return key, nil
	case Argon2id:
		if p.Time == 0 || p.Threads == 0 {
			return nil, errs.Crypto("argon2id requires non-zero time and threads", nil)
		}
		return argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, KeySize), nil
	default:
		return nil, errs.Config("kdf", fmt.Sprintf("unknown algorithm %q", p.Algorithm))
	}
}
