package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordLookupIsExactByteMatch(t *testing.T) {
	for _, tc := range []struct {
		text string
		kind Kind
	}{
		{"ако", If},
		{"иначе", Else},
		{"док", While},
		{"за", For},
		{"ради", Do},
		{"прекини", Break},
		{"врати", Return},
		{"екстерно", External},
		{"тачно", True},
		{"нетачно", False},
	} {
		kind, ok := LookupKeyword(tc.text)
		assert.True(t, ok, tc.text)
		assert.Equal(t, tc.kind, kind, tc.text)

		text, ok := KeywordText(tc.kind)
		assert.True(t, ok)
		assert.Equal(t, tc.text, text)
	}
}

func TestIsKeywordMatchesOnlyTheTenStrings(t *testing.T) {
	assert.True(t, IsKeyword("ако"))
	assert.False(t, IsKeyword("ако1"))
	assert.False(t, IsKeyword("_ако"))
	assert.False(t, IsKeyword("главна"))
}

func TestKindStringDistinctPerTag(t *testing.T) {
	seen := map[string]bool{}
	for k := Kind(0); k < kindCount; k++ {
		s := k.String()
		assert.NotEqual(t, "", s)
		assert.False(t, seen[s], "duplicate Kind name %q", s)
		seen[s] = true
	}
}
