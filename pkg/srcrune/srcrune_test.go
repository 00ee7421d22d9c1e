package srcrune

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []rune{'a', 'Z', '0', 'ш', 'ћ', 'ђ', 0x04FF, 0x10FFFF}
	for _, r := range cases {
		enc := Encode(r)
		if enc == nil {
			t.Fatalf("Encode(%U) returned nil", r)
		}
		got, n := Decode(enc)
		assert.Equal(t, r, got)
		assert.Equal(t, len(enc), n)
	}
}

func TestDecodeRejectsSurrogate(t *testing.T) {
	// U+D800 encoded as if it were valid UTF-8: ED A0 80.
	b := []byte{0xED, 0xA0, 0x80}
	r, n := Decode(b)
	assert.Equal(t, rune(0), r)
	assert.Equal(t, 0, n)
}

func TestDecodeRejectsOverlong(t *testing.T) {
	// overlong two-byte encoding of NUL: C0 80.
	b := []byte{0xC0, 0x80}
	_, n := Decode(b)
	assert.Equal(t, 0, n)
}

func TestDecodeRejectsTruncated(t *testing.T) {
	b := []byte{0xE2, 0x82} // truncated three-byte sequence
	_, n := Decode(b)
	assert.Equal(t, 0, n)
}

func TestEncodeRejectsSurrogate(t *testing.T) {
	assert.Nil(t, Encode(0xD800))
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	assert.Nil(t, Encode(0x110000))
}

func TestLengthSkipsIllFormedByte(t *testing.T) {
	s := string([]byte{'a', 0xFF, 'b', 0})
	assert.Equal(t, 2, Length(s))
}

func TestLengthStopsAtNul(t *testing.T) {
	s := string([]byte{'a', 'b', 0, 'c'})
	assert.Equal(t, 2, Length(s))
}

func TestCompareOrdersByCodepoint(t *testing.T) {
	assert.Equal(t, 0, Compare("абв", "абв"))
	assert.Less(t, Compare("а", "б"), 0)
	assert.Greater(t, Compare("б", "а"), 0)
}

func TestCompareNullOrdersBelowNonNull(t *testing.T) {
	a := string([]byte{0})
	b := "a"
	assert.Less(t, Compare(a, b), 0)
}

func TestIsAlphabeticCyrillicBlock(t *testing.T) {
	assert.True(t, IsAlphabetic('а'))
	assert.True(t, IsAlphabetic('ш'))
	assert.True(t, IsAlphabetic('ћ'))
	assert.True(t, IsAlphabetic('Z'))
	assert.False(t, IsAlphabetic('5'))
}

func TestIsIdentifierChar(t *testing.T) {
	assert.True(t, IsIdentifierChar('_', true))
	assert.True(t, IsIdentifierChar('а', true))
	assert.False(t, IsIdentifierChar('5', true))
	assert.True(t, IsIdentifierChar('5', false))
}
