// Package hash provides the digest primitives the signer and credential
// providers build on: SHA-256, SHA-1, MD5, and HMAC over any of them, each
// with both a one-shot and a streaming form.
package hash

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Digest is a fixed-size hash output. It implements equality and renders
// as lowercase hex, matching the wire form AWS signatures use everywhere
// (payload hashes, signing key material is never rendered as a Digest).
type Digest []byte

// Equal reports whether two digests hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	return hmac.Equal(d, other)
}

// String renders the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Hasher is a streaming digest: New, repeated Write, then Sum.
type Hasher interface {
	Write(p []byte) (n int, err error)
	Sum() Digest
	Reset()
}

type streamHasher struct {
	h hash.Hash
}

func (s *streamHasher) Write(p []byte) (int, error) { return s.h.Write(p) }
func (s *streamHasher) Sum() Digest                  { return s.h.Sum(nil) }
func (s *streamHasher) Reset()                       { s.h.Reset() }

// NewSHA256 returns a streaming SHA-256 hasher.
func NewSHA256() Hasher { return &streamHasher{h: sha256.New()} }

// NewSHA1 returns a streaming SHA-1 hasher.
func NewSHA1() Hasher { return &streamHasher{h: sha1.New()} }

// NewMD5 returns a streaming MD5 hasher.
func NewMD5() Hasher { return &streamHasher{h: md5.New()} }

// SHA256 computes the SHA-256 digest of b in one call.
func SHA256(b []byte) Digest {
	sum := sha256.Sum256(b)
	return sum[:]
}

// SHA1 computes the SHA-1 digest of b in one call.
func SHA1(b []byte) Digest {
	sum := sha1.Sum(b)
	return sum[:]
}

// MD5 computes the MD5 digest of b in one call.
func MD5(b []byte) Digest {
	sum := md5.Sum(b)
	return sum[:]
}

// EmptySHA256Hex is the hex SHA-256 of the empty input, used as the
// x-amz-content-sha256 value for bodyless requests (spec invariant I4).
const EmptySHA256Hex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// HMAC is a streaming HMAC over an underlying hash constructor.
type HMAC struct {
	h hash.Hash
}

// NewHMACSHA256 starts a streaming HMAC-SHA256 keyed by key.
func NewHMACSHA256(key []byte) *HMAC {
	return &HMAC{h: hmac.New(sha256.New, key)}
}

// Write feeds more data into the running MAC.
func (m *HMAC) Write(p []byte) (int, error) { return m.h.Write(p) }

// Sum finalizes and returns the MAC.
func (m *HMAC) Sum() Digest { return m.h.Sum(nil) }

// AuthenticationCode computes HMAC-SHA256(key, data) in one call. This is
// the primitive the SigV4 signing-key derivation chain is built from.
func AuthenticationCode(key, data []byte) Digest {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
