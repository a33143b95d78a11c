package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256_KnownVector(t *testing.T) {
	d := SHA256([]byte(""))
	assert.Equal(t, EmptySHA256Hex, d.String())
}

func TestSHA256_StreamingMatchesOneShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	oneShot := SHA256(data)

	h := NewSHA256()
	_, err := h.Write(data[:10])
	require.NoError(t, err)
	_, err = h.Write(data[10:])
	require.NoError(t, err)

	assert.True(t, oneShot.Equal(h.Sum()))
}

func TestDigest_EqualAndString(t *testing.T) {
	a := SHA256([]byte("a"))
	b := SHA256([]byte("a"))
	c := SHA256([]byte("b"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Len(t, []byte(a), 32)
	assert.Regexp(t, "^[0-9a-f]{64}$", a.String())
}

func TestSHA1AndMD5_Lengths(t *testing.T) {
	assert.Len(t, []byte(SHA1([]byte("x"))), 20)
	assert.Len(t, []byte(MD5([]byte("x"))), 16)
}

func TestHasher_Reset(t *testing.T) {
	h := NewMD5()
	_, _ = h.Write([]byte("hello"))
	first := h.Sum()
	h.Reset()
	_, _ = h.Write([]byte("hello"))
	second := h.Sum()
	assert.True(t, first.Equal(second))
}

func TestAuthenticationCode(t *testing.T) {
	mac1 := AuthenticationCode([]byte("key"), []byte("data"))
	mac2 := AuthenticationCode([]byte("key"), []byte("data"))
	mac3 := AuthenticationCode([]byte("key"), []byte("other"))

	assert.True(t, mac1.Equal(mac2))
	assert.False(t, mac1.Equal(mac3))
}

func TestHMAC_StreamingMatchesOneShot(t *testing.T) {
	key := []byte("secret")
	data := []byte("some payload bytes")

	oneShot := AuthenticationCode(key, data)

	m := NewHMACSHA256(key)
	_, err := m.Write(data[:4])
	require.NoError(t, err)
	_, err = m.Write(data[4:])
	require.NoError(t, err)

	assert.True(t, oneShot.Equal(m.Sum()))
}
