package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	for _, size := range []int{0, 1, 16, 32} {
		b := GenerateRandByteArray(size)
		assert.Len(t, b, size)
	}

	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	assert.False(t, bytes.Equal(a, b), "two 32-byte draws should differ")
	assert.NotEqual(t, make([]byte, 32), a)
}

func TestWipeByteArray(t *testing.T) {
	password := []byte("correct horse battery staple")
	alias := password[8:13]

	WipeByteArray(password)

	require.Len(t, password, 28)
	assert.Equal(t, make([]byte, 28), password)
	assert.Equal(t, make([]byte, 5), alias, "shared backing array is zeroed too")
}

func TestWipeByteArray_NilAndEmpty(t *testing.T) {
	assert.NotPanics(t, func() { WipeByteArray(nil) })
	assert.NotPanics(t, func() { WipeByteArray([]byte{}) })
}
