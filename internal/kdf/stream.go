// Package kdf derives the byte stream behind every password.
//
// The secret is stretched with a memory-hard KDF salted by an unambiguous
// encoding of (name, epoch index). HKDF turns the stretched key into a stream
// key, and the stream itself is HMAC-SHA256 in counter mode, so callers can
// read as many bytes as rejection sampling needs without re-stretching.
package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/secure"
)

const (
	contextLabel = "tltp/v1"
	streamInfo   = "tltp stream"
)

// Context encodes name and epoch for use as the KDF salt. The name is
// length-prefixed and the epoch is a fixed-width two's-complement field, so
// distinct pairs never share an encoding.
func Context(name string, epoch int64) []byte {
	buf := make([]byte, 0, len(contextLabel)+1+4+len(name)+8)
	buf = append(buf, contextLabel...)
	buf = append(buf, 0)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(name)))
	buf = append(buf, name...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(epoch))
	return buf
}

// Stream is an unbounded, deterministic sequence of derived bytes.
// It is not safe for concurrent use.
type Stream struct {
	key      []byte
	mac      hash.Hash
	block    [sha256.Size]byte
	pos      int
	counter  uint64
	consumed int64
	closed   bool
}

var (
	_ io.Reader     = (*Stream)(nil)
	_ io.ByteReader = (*Stream)(nil)
)

// NewStream stretches secret for (name, epoch) and returns a stream
// positioned at byte 0. The caller keeps ownership of secret.
func NewStream(secret []byte, name string, epoch int64, p Params) (*Stream, error) {
	if len(secret) == 0 {
		return nil, errs.Crypto("master secret must not be empty", nil)
	}

	ctx := Context(name, epoch)
	stretched, err := stretch(secret, ctx, p)
	if err != nil {
		return nil, err
	}
	defer secure.Zero(stretched)

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, stretched, ctx, []byte(streamInfo)), key); err != nil {
		secure.Zero(key)
		return nil, errs.Crypto("stream key expansion failed", err)
	}

	return &Stream{
		key: key,
		mac: hmac.New(sha256.New, key),
		pos: sha256.Size,
	}, nil
}

func (s *Stream) next() {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.counter)

	s.mac.Reset()
	s.mac.Write(ctr[:])
	s.mac.Sum(s.block[:0])
	s.counter++
	s.pos = 0
}

// ReadByte returns the next derived byte.
func (s *Stream) ReadByte() (byte, error) {
	if s.closed {
		return 0, errs.Crypto("read from closed stream", nil)
	}
	if s.pos == len(s.block) {
		s.next()
	}
	b := s.block[s.pos]
	s.pos++
	s.consumed++
	return b, nil
}

// Read fills p with derived bytes. It never returns io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errs.Crypto("read from closed stream", nil)
	}
	n := 0
	for n < len(p) {
		if s.pos == len(s.block) {
			s.next()
		}
		c := copy(p[n:], s.block[s.pos:])
		s.pos += c
		n += c
	}
	s.consumed += int64(n)
	return n, nil
}

// Consumed reports how many bytes have been read since creation or Reset.
func (s *Stream) Consumed() int64 { return s.consumed }

// Reset rewinds the stream to byte 0.
func (s *Stream) Reset() {
	s.counter = 0
	s.pos = len(s.block)
	s.consumed = 0
	secure.Zero(s.block[:])
}

// Close wipes the stream key. Reads after Close fail.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	secure.Zero(s.key)
	secure.Zero(s.block[:])
	s.mac = nil
	return nil
}

// Derive returns the first length bytes of the stream for (secret, name, epoch).
func Derive(secret []byte, name string, epoch int64, length int, p Params) ([]byte, error) {
	if length <= 0 {
		return nil, errs.Crypto("requested length must be positive", nil)
	}

	s, err := NewStream(secret, name, epoch, p)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	out := make([]byte, length)
	if _, err := io.ReadFull(s, out); err != nil {
		return nil, errs.Crypto("stream read failed", err)
	}
	return out, nil
}
