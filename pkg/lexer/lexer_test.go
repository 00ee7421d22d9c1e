package lexer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/target"
	"github.com/aledsdavies/glavnac/pkg/token"
)

func newTestLexer(t *testing.T, src string) (*Lexer, *diag.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := diag.NewForTest(&buf)
	l := New("test.ћпп", []byte(src), r, target.InitArch(target.X86_64))
	return l, r, &buf
}

// S1 — keyword vs identifier.
func TestS1KeywordVsIdentifier(t *testing.T) {
	l, _, _ := newTestLexer(t, "ако ако1 _ако")

	tok1 := l.NextToken()
	assert.Equal(t, token.If, tok1.Kind)

	tok2 := l.NextToken()
	require.Equal(t, token.Identifier, tok2.Kind)
	assert.Equal(t, "ако1", tok2.StrValue)

	tok3 := l.NextToken()
	require.Equal(t, token.Identifier, tok3.Kind)
	assert.Equal(t, "_ако", tok3.StrValue)

	tok4 := l.NextToken()
	assert.Equal(t, token.EOF, tok4.Kind)
}

// S4 — unterminated string.
func TestS4UnterminatedString(t *testing.T) {
	l, r, _ := newTestLexer(t, `x = "hello;`)

	assert.Equal(t, token.Identifier, l.NextToken().Kind)
	assert.Equal(t, token.Equals, l.NextToken().Kind)
	str := l.NextToken()
	assert.Equal(t, token.ErrorToken, str.Kind)

	errSev := diag.Error
	require.Equal(t, 1, r.Count(&errSev))
	assert.Contains(t, r.Entries()[0].Message, "Unterminated string")
}

// S5 — floating literal warning, truncated to integer 3.
func TestS5FloatingLiteralWarning(t *testing.T) {
	l, r, _ := newTestLexer(t, "x = 3.14;")

	assert.Equal(t, token.Identifier, l.NextToken().Kind)
	assert.Equal(t, token.Equals, l.NextToken().Kind)
	num := l.NextToken()
	require.Equal(t, token.Number, num.Kind)
	assert.EqualValues(t, 3, num.IntValue)
	assert.Equal(t, token.Semicolon, l.NextToken().Kind)

	warnSev := diag.Warning
	require.Equal(t, 1, r.Count(&warnSev))
	assert.Contains(t, r.Entries()[0].Message, "Floating-point")
}

func TestTwoCharacterOperators(t *testing.T) {
	l, _, _ := newTestLexer(t, "== != <= >= && ||")
	kinds := []token.Kind{}
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.EqualsEquals, token.NotEquals, token.LessEquals,
		token.GreaterEquals, token.AndAnd, token.OrOr,
	}, kinds)
}

func TestRelationalOperatorsLeaveBlockFramingToParser(t *testing.T) {
	l, _, _ := newTestLexer(t, "< >")
	assert.Equal(t, token.Less, l.NextToken().Kind)
	assert.Equal(t, token.Greater, l.NextToken().Kind)
}

func TestLineCommentSkipped(t *testing.T) {
	l, r, _ := newTestLexer(t, "x // comment\n= 1;")
	assert.Equal(t, token.Identifier, l.NextToken().Kind)
	assert.Equal(t, token.Equals, l.NextToken().Kind)
	assert.Equal(t, 0, r.Count(nil))
}

func TestUnterminatedBlockCommentWarns(t *testing.T) {
	l, r, _ := newTestLexer(t, "/* never closes")
	assert.Equal(t, token.EOF, l.NextToken().Kind)
	warnSev := diag.Warning
	assert.Equal(t, 1, r.Count(&warnSev))
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	l, _, _ := newTestLexer(t, "ако врати")
	peeked := l.PeekToken()
	assert.Equal(t, token.If, peeked.Kind)
	next := l.NextToken()
	assert.Equal(t, token.If, next.Kind)
	assert.Equal(t, token.Return, l.NextToken().Kind)
}

func TestByteCountedColumns(t *testing.T) {
	// "ћ" is a two-byte UTF-8 identifier; its second column is byte 2.
	l, _, _ := newTestLexer(t, "ћ")
	tok := l.NextToken()
	require.Equal(t, token.Identifier, tok.Kind)
	assert.Equal(t, 1, tok.Pos.Column)
	assert.Equal(t, 2, tok.Length)
}

func TestHexBinOctalNumberLiterals(t *testing.T) {
	l, _, _ := newTestLexer(t, "0x1F 0b101 0o17 1_000")
	n1 := l.NextToken()
	assert.EqualValues(t, 31, n1.IntValue)
	n2 := l.NextToken()
	assert.EqualValues(t, 5, n2.IntValue)
	n3 := l.NextToken()
	assert.EqualValues(t, 15, n3.IntValue)
	n4 := l.NextToken()
	assert.EqualValues(t, 1000, n4.IntValue)
}

func TestNumberLiteralBoundedByTargetWordSize(t *testing.T) {
	var buf bytes.Buffer
	r := diag.NewForTest(&buf)
	// 2^32, one past the largest value a 32-bit word can hold.
	l := New("test.ћпп", []byte("4294967296"), r, target.InitArch(target.X86))
	tok := l.NextToken()
	assert.Equal(t, token.ErrorToken, tok.Kind)
	errSev := diag.Error
	assert.Equal(t, 1, r.Count(&errSev))
}

func TestNumberLiteralFitsWiderWordSize(t *testing.T) {
	var buf bytes.Buffer
	r := diag.NewForTest(&buf)
	// Same literal fits cleanly in a 64-bit word.
	l := New("test.ћпп", []byte("4294967296"), r, target.InitArch(target.X86_64))
	tok := l.NextToken()
	require.Equal(t, token.Number, tok.Kind)
	assert.EqualValues(t, 4294967296, tok.IntValue)
	assert.Zero(t, r.Count(nil))
}

func TestStringEscapes(t *testing.T) {
	l, _, _ := newTestLexer(t, `"a\nb\tA\x42"`)
	tok := l.NextToken()
	require.Equal(t, token.StringLiteral, tok.Kind)
	assert.Equal(t, "a\nb\tAB", tok.StrValue)
}

func TestCharLiteral(t *testing.T) {
	l, _, _ := newTestLexer(t, `'ш'`)
	tok := l.NextToken()
	require.Equal(t, token.CharLiteral, tok.Kind)
	assert.Equal(t, 'ш', tok.RuneValue)
}

func TestMissingExtensionWarns(t *testing.T) {
	var buf bytes.Buffer
	r := diag.NewForTest(&buf)
	New("main.txt", []byte("x"), r, target.InitArch(target.X86_64))
	warnSev := diag.Warning
	assert.Equal(t, 1, r.Count(&warnSev))
}
