package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint hashes the inputs of a computation in a fixed byte layout, so
// two runs over the same data, method and seed share a Hash. Every write is
// length-prefixed; ("ab","c") and ("a","bc") differ.
type Fingerprint struct {
	h   hash.Hash
	buf [8]byte
}

// NewFingerprint starts an empty fingerprint
func NewFingerprint() *Fingerprint {
	return &Fingerprint{h: sha256.New()}
}

// Uint64 appends v
func (f *Fingerprint) Uint64(v uint64) *Fingerprint {
	binary.LittleEndian.PutUint64(f.buf[:], v)
	f.h.Write(f.buf[:])
	return f
}

// String appends s
func (f *Fingerprint) String(s string) *Fingerprint {
	f.Uint64(uint64(len(s)))
	f.h.Write([]byte(s))
	return f
}

// Floats appends the IEEE-754 bits of every value
func (f *Fingerprint) Floats(values []float64) *Fingerprint {
	f.Uint64(uint64(len(values)))
	for _, v := range values {
		f.Uint64(math.Float64bits(v))
	}
	return f
}

// Ints appends every value
func (f *Fingerprint) Ints(values []int) *Fingerprint {
	f.Uint64(uint64(len(values)))
	for _, v := range values {
		f.Uint64(uint64(int64(v)))
	}
	return f
}

// Sum returns the hash of everything written so far
func (f *Fingerprint) Sum() Hash {
	return Hash(hex.EncodeToString(f.h.Sum(nil)))
}
