// Package lexer turns a UTF-8 source buffer into a stream of tokens.
package lexer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/srcrune"
	"github.com/aledsdavies/glavnac/pkg/target"
	"github.com/aledsdavies/glavnac/pkg/token"
)

// sourceExtension is the advisory extension; a missing or different
// extension produces a Warning, never a rejection.
const sourceExtension = ".ћпп"

// ASCII fast-path classification tables, populated once in init(), mirror
// the lexer's dispatch on raw bytes before falling back to srcrune for
// multi-byte sequences.
var (
	isASCIIWhitespace [128]bool
	isASCIIDigit      [128]bool
)

func init() {
	isASCIIWhitespace[' '] = true
	isASCIIWhitespace['\t'] = true
	isASCIIWhitespace['\r'] = true
	isASCIIWhitespace['\n'] = true
	for c := '0'; c <= '9'; c++ {
		isASCIIDigit[c] = true
	}
}

// Opt configures a Lexer at construction time.
type Opt func(*Lexer)

// WithMaxNumberLiteralLength overrides the 64-byte numeric-literal cap.
func WithMaxNumberLiteralLength(n int) Opt {
	return func(l *Lexer) { l.maxNumberLen = n }
}

// Lexer scans a NUL-terminated source buffer into tokens.
type Lexer struct {
	src      []byte
	filename string
	diags    *diag.Registry
	target   target.Info

	pos         int
	start       int
	line        int
	column      int
	prevColumn  int
	lookahead   *token.Token

	maxNumberLen int
}

// New constructs a Lexer over an already-loaded source buffer. src need
// not be NUL-terminated; New appends the terminator.
func New(filename string, src []byte, diags *diag.Registry, tgt target.Info, opts ...Opt) *Lexer {
	buf := make([]byte, len(src)+1)
	copy(buf, src)
	buf[len(src)] = 0

	l := &Lexer{
		src:          buf,
		filename:     filename,
		diags:        diags,
		target:       tgt,
		line:         1,
		column:       1,
		maxNumberLen: 64,
	}
	for _, opt := range opts {
		opt(l)
	}
	if !strings.HasSuffix(filename, sourceExtension) {
		l.diags.Report(diag.Lexical, diag.Warning, filename, 0, 0,
			"source file does not use the advisory "+sourceExtension+" extension", "", "lexer.go", 0)
	}
	return l
}

// NewFromFile reads filename and constructs a Lexer over its contents. A
// read failure is reported as an IO diagnostic and a nil Lexer is
// returned.
func NewFromFile(filename string, diags *diag.Registry, tgt target.Info, opts ...Opt) *Lexer {
	data, err := os.ReadFile(filename)
	if err != nil {
		diags.Report(diag.IO, diag.Error, filename, 0, 0,
			errors.Wrapf(err, "could not read source file").Error(), "", "lexer.go", 0)
		return nil
	}
	return New(filename, data, diags, tgt, opts...)
}

// Mark is an exported lexer cursor snapshot, letting a caller (the
// parser, for multi-token lookahead) save and later restore lexer state,
// including any token PeekToken has cached.
type Mark struct {
	c         cursor
	lookahead *token.Token
}

// Mark captures the current lexer position.
func (l *Lexer) Mark() Mark {
	return Mark{c: l.snapshot(), lookahead: l.lookahead}
}

// Reset rewinds the lexer to a previously captured Mark.
func (l *Lexer) Reset(m Mark) {
	l.restore(m.c)
	l.lookahead = m.lookahead
}

// cursor snapshots the lexer's position for save/restore lookahead.
type cursor struct {
	pos, start, line, column, prevColumn int
}

func (l *Lexer) snapshot() cursor {
	return cursor{l.pos, l.start, l.line, l.column, l.prevColumn}
}

func (l *Lexer) restore(c cursor) {
	l.pos, l.start, l.line, l.column, l.prevColumn = c.pos, c.start, c.line, c.column, c.prevColumn
}

// NextToken returns the cached lookahead if any, otherwise scans one.
func (l *Lexer) NextToken() token.Token {
	if l.lookahead != nil {
		t := *l.lookahead
		l.lookahead = nil
		return t
	}
	return l.scanToken()
}

// PeekToken returns the next token without consuming it. A peek never
// consumes: the token is scanned once and cached as the one-token
// lookahead, which the next NextToken call returns.
func (l *Lexer) PeekToken() token.Token {
	if l.lookahead != nil {
		return *l.lookahead
	}
	t := l.scanToken()
	l.lookahead = &t
	return t
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src) || l.src[l.pos] == 0
}

func (l *Lexer) currentByte() byte {
	if l.atEOF() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(offset int) byte {
	p := l.pos + offset
	if p >= len(l.src) {
		return 0
	}
	return l.src[p]
}

// peekRune looks at the codepoint starting at pos without consuming it.
func (l *Lexer) peekRune() rune {
	if l.atEOF() {
		return 0
	}
	b := l.src[l.pos]
	if b < 0x80 {
		return rune(b)
	}
	r, size := srcrune.Decode(l.src[l.pos:])
	if size == 0 {
		return rune(b)
	}
	return r
}

// advance reads one codepoint and moves the cursor past it, updating
// line/column bookkeeping. Columns count bytes, not codepoints: every
// byte of a multi-byte sequence bumps the column once. Invalid or
// truncated multi-byte sequences consume only the raw first byte.
func (l *Lexer) advance() rune {
	if l.atEOF() {
		return 0
	}
	b0 := l.src[l.pos]
	if b0 < 0x80 {
		l.pos++
		l.bumpColumn(b0)
		return rune(b0)
	}
	r, size := srcrune.Decode(l.src[l.pos:])
	if size == 0 {
		l.pos++
		l.bumpColumn(b0)
		return rune(b0)
	}
	for i := 0; i < size; i++ {
		l.column++
	}
	l.pos += size
	return r
}

func (l *Lexer) bumpColumn(b byte) {
	if b == '\n' {
		l.prevColumn = l.column
		l.line++
		l.column = 1
		return
	}
	l.column++
}

func (l *Lexer) pos2() (line, column int) { return l.line, l.column }

func (l *Lexer) makeToken(kind token.Kind, startLine, startColumn int) token.Token {
	return token.Token{
		Kind:   kind,
		Pos:    token.Position{Filename: l.filename, Line: startLine, Column: startColumn},
		Offset: l.start,
		Length: l.pos - l.start,
	}
}

func (l *Lexer) reportLexical(severity diag.Severity, line, column int, message string) {
	l.diags.Report(diag.Lexical, severity, l.filename, line, column, message, "", "lexer.go", 0)
}

// scanToken is the core dispatch: skip trivia, then decide on the next
// codepoint.
func (l *Lexer) scanToken() token.Token {
	l.skipWhitespaceAndComments()

	l.start = l.pos
	startLine, startColumn := l.pos2()

	if l.atEOF() {
		return l.makeToken(token.EOF, startLine, startColumn)
	}

	b := l.currentByte()
	r := l.peekRune()

	switch {
	case srcrune.IsIdentifierChar(r, true):
		return l.scanIdentifier(startLine, startColumn)
	case srcrune.IsDigit(r):
		return l.scanNumber(startLine, startColumn)
	case b == '"':
		return l.scanString(startLine, startColumn)
	case b == '\'':
		return l.scanChar(startLine, startColumn)
	default:
		return l.scanOperator(startLine, startColumn)
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		if l.atEOF() {
			return
		}
		b := l.currentByte()
		if isASCIIWhitespace[b] {
			l.advance()
			continue
		}
		if b == '/' && l.peekByteAt(1) == '/' {
			for !l.atEOF() && l.currentByte() != '\n' {
				l.advance()
			}
			continue
		}
		if b == '/' && l.peekByteAt(1) == '*' {
			line, column := l.pos2()
			l.advance()
			l.advance()
			terminated := false
			for !l.atEOF() {
				if l.currentByte() == '*' && l.peekByteAt(1) == '/' {
					l.advance()
					l.advance()
					terminated = true
					break
				}
				l.advance()
			}
			if !terminated {
				l.reportLexical(diag.Warning, line, column, "unterminated block comment")
			}
			continue
		}
		return
	}
}

func (l *Lexer) scanIdentifier(startLine, startColumn int) token.Token {
	for !l.atEOF() && srcrune.IsIdentifierChar(l.peekRune(), false) {
		l.advance()
	}
	text := string(l.src[l.start:l.pos])
	if kind, ok := token.LookupKeyword(text); ok {
		t := l.makeToken(kind, startLine, startColumn)
		return t
	}
	t := l.makeToken(token.Identifier, startLine, startColumn)
	t.StrValue = text
	return t
}

func (l *Lexer) scanNumber(startLine, startColumn int) token.Token {
	consumeDigitRun := func(isDigit func(byte) bool) {
		for !l.atEOF() {
			b := l.currentByte()
			if b == '_' && isDigit(l.peekByteAt(1)) {
				l.advance()
				continue
			}
			if !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	base := 10
	if l.currentByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		base = 16
		l.advance()
		l.advance()
		consumeDigitRun(isHexDigit)
	} else if l.currentByte() == '0' && (l.peekByteAt(1) == 'b' || l.peekByteAt(1) == 'B') {
		base = 2
		l.advance()
		l.advance()
		consumeDigitRun(isBinaryDigit)
	} else if l.currentByte() == '0' && (l.peekByteAt(1) == 'o' || l.peekByteAt(1) == 'O') {
		base = 8
		l.advance()
		l.advance()
		consumeDigitRun(isOctalDigit)
	} else {
		consumeDigitRun(isDecimalDigit)
		if base == 10 && l.currentByte() == '.' && isDecimalDigit(l.peekByteAt(1)) {
			l.advance() // consume '.'
			consumeDigitRun(isDecimalDigit)
			l.reportLexical(diag.Warning, startLine, startColumn,
				"Floating-point numbers are not fully supported yet; truncating to integer value")
		}
	}

	lexeme := string(l.src[l.start:l.pos])
	if len(lexeme) > l.maxNumberLen {
		l.reportLexical(diag.Error, startLine, startColumn, "numeric literal exceeds maximum length")
		t := l.makeToken(token.ErrorToken, startLine, startColumn)
		t.StrValue = "numeric literal too long"
		return t
	}

	digits := integralPart(lexeme, base)
	wordBits := l.target.WordSize * 8
	value, err := strconv.ParseUint(strings.ReplaceAll(digits, "_", ""), base, wordBits)
	if err != nil {
		l.reportLexical(diag.Error, startLine, startColumn,
			fmt.Sprintf("numeric literal exceeds the target's %d-bit word", wordBits))
		t := l.makeToken(token.ErrorToken, startLine, startColumn)
		t.StrValue = "numeric literal too large for target word size"
		return t
	}
	t := l.makeToken(token.Number, startLine, startColumn)
	t.IntValue = int64(value)
	return t
}

// integralPart strips a base prefix and any trailing ".fraction" so only
// the digits that feed the intptr parse remain.
func integralPart(lexeme string, base int) string {
	s := lexeme
	switch base {
	case 16, 2, 8:
		s = s[2:]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "0"
	}
	return s
}

func isDecimalDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDecimalDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isBinaryDigit(b byte) bool { return b == '0' || b == '1' }
func isOctalDigit(b byte) bool  { return b >= '0' && b <= '7' }

// scanEscape handles the shared escape-sequence grammar for string and
// character literals. It returns the decoded codepoint(s) appended to
// buf, or ok=false on an invalid escape (already reported).
func (l *Lexer) scanEscape(buf *strings.Builder, line, column int) bool {
	l.advance() // consume backslash
	if l.atEOF() {
		l.reportLexical(diag.Error, line, column, "unterminated escape sequence")
		return false
	}
	c := l.advance()
	switch c {
	case '"':
		buf.WriteByte('"')
	case '\\':
		buf.WriteByte('\\')
	case '\'':
		buf.WriteByte('\'')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case '0':
		buf.WriteByte(0)
	case 'n':
		buf.WriteByte('\n')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'v':
		buf.WriteByte('\v')
	case 'a':
		buf.WriteByte('\a')
	case 'u':
		var v rune
		for i := 0; i < 4; i++ {
			d := l.currentByte()
			if !isHexDigit(d) {
				l.reportLexical(diag.Error, line, column, "\\u escape requires exactly four hex digits")
				return false
			}
			v = v*16 + rune(hexValue(d))
			l.advance()
		}
		enc := srcrune.Encode(v)
		if enc == nil {
			l.reportLexical(diag.Error, line, column, "\\u escape names an invalid codepoint")
			return false
		}
		buf.Write(enc)
	case 'x':
		var v byte
		for i := 0; i < 2; i++ {
			d := l.currentByte()
			if !isHexDigit(d) {
				l.reportLexical(diag.Error, line, column, "\\x escape requires exactly two hex digits")
				return false
			}
			v = v*16 + hexValue(d)
			l.advance()
		}
		buf.WriteByte(v)
	default:
		l.reportLexical(diag.Error, line, column, "unrecognized escape sequence")
		return false
	}
	return true
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

func (l *Lexer) scanString(startLine, startColumn int) token.Token {
	l.advance() // consume opening quote
	var buf strings.Builder
	for {
		if l.atEOF() {
			l.reportLexical(diag.Error, startLine, startColumn, "Unterminated string literal")
			t := l.makeToken(token.ErrorToken, startLine, startColumn)
			t.StrValue = "Unterminated string"
			return t
		}
		b := l.currentByte()
		if b == '"' {
			l.advance()
			break
		}
		if b == '\\' {
			if !l.scanEscape(&buf, startLine, startColumn) {
				// continue scanning so a single bad escape doesn't cascade
				continue
			}
			continue
		}
		r := l.advance()
		if enc := srcrune.Encode(r); enc != nil {
			buf.Write(enc)
		} else {
			buf.WriteByte(byte(r))
		}
	}
	t := l.makeToken(token.StringLiteral, startLine, startColumn)
	t.StrValue = buf.String()
	return t
}

func (l *Lexer) scanChar(startLine, startColumn int) token.Token {
	l.advance() // consume opening quote
	if l.atEOF() {
		l.reportLexical(diag.Error, startLine, startColumn, "unterminated character literal")
		return l.makeToken(token.ErrorToken, startLine, startColumn)
	}

	var r rune
	if l.currentByte() == '\\' {
		var buf strings.Builder
		if !l.scanEscape(&buf, startLine, startColumn) {
			return l.makeToken(token.ErrorToken, startLine, startColumn)
		}
		raw := buf.String()
		decoded, size := srcrune.Decode([]byte(raw))
		if size == 0 {
			r = rune(raw[0])
		} else {
			r = decoded
		}
	} else {
		r = l.advance()
	}

	if l.atEOF() || l.currentByte() != '\'' {
		l.reportLexical(diag.Error, startLine, startColumn, "character literal missing closing '")
		return l.makeToken(token.ErrorToken, startLine, startColumn)
	}
	l.advance() // consume closing quote

	t := l.makeToken(token.CharLiteral, startLine, startColumn)
	t.RuneValue = r
	return t
}

func (l *Lexer) scanOperator(startLine, startColumn int) token.Token {
	b := l.currentByte()
	two := func(second byte, kind2 token.Kind, kind1 token.Kind) token.Token {
		l.advance()
		if l.currentByte() == second {
			l.advance()
			return l.makeToken(kind2, startLine, startColumn)
		}
		return l.makeToken(kind1, startLine, startColumn)
	}

	switch b {
	case '(':
		l.advance()
		return l.makeToken(token.LParen, startLine, startColumn)
	case ')':
		l.advance()
		return l.makeToken(token.RParen, startLine, startColumn)
	case '[':
		l.advance()
		return l.makeToken(token.LBracket, startLine, startColumn)
	case ']':
		l.advance()
		return l.makeToken(token.RBracket, startLine, startColumn)
	case ';':
		l.advance()
		return l.makeToken(token.Semicolon, startLine, startColumn)
	case ',':
		l.advance()
		return l.makeToken(token.Comma, startLine, startColumn)
	case '.':
		l.advance()
		return l.makeToken(token.Dot, startLine, startColumn)
	case ':':
		l.advance()
		return l.makeToken(token.Colon, startLine, startColumn)
	case '+':
		l.advance()
		return l.makeToken(token.Plus, startLine, startColumn)
	case '-':
		l.advance()
		return l.makeToken(token.Minus, startLine, startColumn)
	case '*':
		l.advance()
		return l.makeToken(token.Star, startLine, startColumn)
	case '/':
		l.advance()
		return l.makeToken(token.Slash, startLine, startColumn)
	case '%':
		l.advance()
		return l.makeToken(token.Percent, startLine, startColumn)
	case '^':
		l.advance()
		return l.makeToken(token.Caret, startLine, startColumn)
	case '~':
		l.advance()
		return l.makeToken(token.Tilde, startLine, startColumn)
	case '=':
		return two('=', token.EqualsEquals, token.Equals)
	case '!':
		return two('=', token.NotEquals, token.Bang)
	case '<':
		return two('=', token.LessEquals, token.Less)
	case '>':
		return two('=', token.GreaterEquals, token.Greater)
	case '&':
		return two('&', token.AndAnd, token.Ampersand)
	case '|':
		return two('|', token.OrOr, token.Pipe)
	default:
		r := l.advance()
		l.reportLexical(diag.Error, startLine, startColumn, "unrecognized character "+strconv.QuoteRune(r))
		return l.makeToken(token.ErrorToken, startLine, startColumn)
	}
}
