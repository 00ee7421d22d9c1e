// Package parser implements a handwritten recursive-descent parser
// producing the typed ast.Program. It uses a single predictive token
// plus, where the grammar requires a second token of lookahead, an
// explicit lexer save/restore.
package parser

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/glavnac/pkg/ast"
	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/lexer"
	"github.com/aledsdavies/glavnac/pkg/token"
)

// DebugEvent records entry into a grammar rule; used by tests asserting
// exact rule-traversal order, and otherwise unused at zero cost.
type DebugEvent struct {
	Rule string
	Pos  token.Position
}

// Opt configures a Parser at construction time.
type Opt func(*Parser)

// WithDebugEvents enables rule-entry tracing, retrievable via
// Parser.DebugEvents after Parse returns.
func WithDebugEvents() Opt {
	return func(p *Parser) { p.debugEnabled = true }
}

// Parser consumes a lexer.Lexer and produces an ast.Program, reporting
// Syntax diagnostics to diags as it goes.
type Parser struct {
	lex   *lexer.Lexer
	diags *diag.Registry
	cur   token.Token

	// inIndex is set while parsing the index of `array:index:`, so the
	// index's own postfix loop leaves the closing ':' for the access.
	inIndex bool

	debugEnabled bool
	debugEvents  []DebugEvent
}

// New primes the parser with the lexer's first token.
func New(lex *lexer.Lexer, diags *diag.Registry, opts ...Opt) *Parser {
	p := &Parser{lex: lex, diags: diags}
	for _, opt := range opts {
		opt(p)
	}
	p.cur = lex.NextToken()
	return p
}

// DebugEvents returns the recorded rule-entry trace, or nil if tracing
// was not enabled.
func (p *Parser) DebugEvents() []DebugEvent { return p.debugEvents }

func (p *Parser) trace(rule string) {
	if p.debugEnabled {
		p.debugEvents = append(p.debugEvents, DebugEvent{Rule: rule, Pos: p.cur.Pos})
	}
}

func (p *Parser) at(kind token.Kind) bool { return p.cur.Kind == kind }

func (p *Parser) advance() token.Token {
	prev := p.cur
	p.cur = p.lex.NextToken()
	return prev
}

// expect consumes the current token if it matches kind, else reports a
// contextual Syntax error and leaves the cursor unchanged.
func (p *Parser) expect(kind token.Kind, context string) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	p.errorExpected(kind, context)
	return false
}

func (p *Parser) errorExpected(expected token.Kind, context string) {
	suggestion, example := expectationHint(expected, context)
	p.diags.Report(diag.Syntax, diag.Error, p.cur.Pos.Filename, p.cur.Pos.Line, p.cur.Pos.Column,
		"missing "+expected.String()+" in "+context, joinHint(suggestion, example), "parser.go", 0)
}

func (p *Parser) errorUnexpected(context string) {
	p.diags.Report(diag.Syntax, diag.Error, p.cur.Pos.Filename, p.cur.Pos.Line, p.cur.Pos.Column,
		"unexpected "+p.cur.Kind.String()+" in "+context, "", "parser.go", 0)
}

func joinHint(suggestion, example string) string {
	if suggestion == "" {
		return ""
	}
	if example == "" {
		return suggestion
	}
	return suggestion + " e.g. " + example
}

// expectationHint supplies the contextual Suggestion/Example text rich
// parse errors carry, mirroring the richness of the teacher's own
// errorExpected.
func expectationHint(expected token.Kind, context string) (suggestion, example string) {
	switch expected {
	case token.RParen:
		return "add ')' to close the " + context, "главна(параметар)"
	case token.Less:
		return "a block starts with '<'", "главна() < врати 0; >"
	case token.Greater:
		return "a block ends with '>'", "главна() < врати 0; >"
	case token.Semicolon:
		return "add ';' to terminate the " + context, "врати 0;"
	case token.Identifier:
		return "expected a name in " + context, ""
	case token.Colon:
		return "array forms use ':' twice, e.g. name::", "бројеви:4:"
	default:
		return "", ""
	}
}

// isSyncToken reports whether the current token is a safe place to
// resume parsing after a Syntax error.
func (p *Parser) isSyncToken() bool {
	return p.at(token.Semicolon) || p.at(token.Greater) || p.at(token.EOF)
}

// recover skips tokens up to the next ';' or '>', whichever comes
// first, and consumes a trailing ';' so the caller resumes cleanly.
func (p *Parser) recover() {
	for !p.isSyncToken() {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// mark/restore give the parser two-token (and beyond) lookahead by
// snapshotting the lexer plus the parser's own current-token cache, used
// for the speculative array-declaration parse below.
type mark struct {
	lex lexer.Mark
	cur token.Token
}

func (p *Parser) mark() mark       { return mark{lex: p.lex.Mark(), cur: p.cur} }
func (p *Parser) restoreTo(m mark) { p.lex.Reset(m.lex); p.cur = m.cur }

// Parse consumes the entire token stream and returns the Program root.
func (p *Parser) Parse() *ast.Program {
	p.trace("file")
	pos := p.cur.Pos
	var decls []ast.Decl
	for !p.at(token.EOF) {
		startOffset := p.cur.Offset
		var d ast.Decl
		switch {
		case p.at(token.External):
			d = p.externalDecl()
		case p.at(token.Identifier):
			d = p.functionDecl()
		default:
			p.errorUnexpected("top-level declaration")
			p.recover()
			continue
		}
		if d != nil {
			decls = append(decls, d)
		}
		if p.cur.Offset == startOffset && !p.at(token.EOF) {
			panic("parser made no progress at top level")
		}
	}
	return &ast.Program{Position: pos, Declarations: decls}
}

func wordType() *ast.TypeInfo { return &ast.TypeInfo{Kind: ast.TInt} }

// arrayParamType is the TypeInfo for a `name::` array parameter: its
// size is not named in the grammar (spec.md §9's Open Question), so it
// carries ast.UnspecifiedSize for the semantic stage to resolve.
func arrayParamType() *ast.TypeInfo {
	return &ast.TypeInfo{Kind: ast.TArray, Element: wordType(), Size: ast.UnspecifiedSize}
}

func (p *Parser) externalDecl() *ast.FunctionDecl {
	p.trace("externalDecl")
	pos := p.cur.Pos
	p.advance() // 'екстерно'
	name := p.identifierName("external declaration")
	p.expect(token.LParen, "external declaration")
	params := p.paramList()
	p.expect(token.RParen, "external declaration")
	p.expect(token.Semicolon, "external declaration")
	return &ast.FunctionDecl{Position: pos, Name: name, Parameters: params, Body: nil, ReturnType: wordType(), IsExternal: true}
}

func (p *Parser) functionDecl() *ast.FunctionDecl {
	p.trace("functionDecl")
	pos := p.cur.Pos
	name := p.identifierName("function declaration")
	p.expect(token.LParen, "function declaration")
	params := p.paramList()
	p.expect(token.RParen, "function declaration")
	body := p.block()
	return &ast.FunctionDecl{Position: pos, Name: name, Parameters: params, Body: body, ReturnType: wordType(), IsExternal: false}
}

func (p *Parser) identifierName(context string) string {
	if p.at(token.Identifier) {
		name := p.cur.StrValue
		p.advance()
		return name
	}
	p.errorExpected(token.Identifier, context)
	return ""
}

func (p *Parser) paramList() []*ast.VarDecl {
	var params []*ast.VarDecl
	if p.at(token.RParen) {
		return params
	}
	params = append(params, p.param())
	for p.at(token.Comma) {
		p.advance()
		params = append(params, p.param())
	}
	return params
}

func (p *Parser) param() *ast.VarDecl {
	p.trace("param")
	pos := p.cur.Pos
	name := p.identifierName("parameter")
	isArray := false
	if p.at(token.Colon) {
		p.advance()
		if p.expect(token.Colon, "array parameter") {
			isArray = true
		}
	}
	varType := wordType()
	if isArray {
		varType = arrayParamType()
	}
	return &ast.VarDecl{Position: pos, Name: name, VarType: varType, IsArrayParam: isArray}
}

func (p *Parser) block() *ast.Block {
	p.trace("block")
	pos := p.cur.Pos
	p.expect(token.Less, "block")
	var stmts []ast.Stmt
	for !p.at(token.Greater) && !p.at(token.EOF) {
		startOffset := p.cur.Offset
		if s := p.statement(); s != nil {
			stmts = append(stmts, s)
		}
		if p.cur.Offset == startOffset && !p.at(token.Greater) && !p.at(token.EOF) {
			panic("parser made no progress in block()")
		}
	}
	p.expect(token.Greater, "block")
	return &ast.Block{Position: pos, Statements: stmts}
}

func (p *Parser) statement() ast.Stmt {
	p.trace("statement")
	switch {
	case p.at(token.Less):
		return p.block()
	case p.at(token.If):
		return p.ifStmt()
	case p.at(token.While):
		return p.whileStmt()
	case p.at(token.For):
		return p.forStmt()
	case p.at(token.Do):
		return p.doWhileStmt()
	case p.at(token.Break):
		return p.breakStmt()
	case p.at(token.Return):
		return p.returnStmt()
	case p.at(token.Identifier):
		if decl := p.tryArrayDecl(); decl != nil {
			return decl
		}
		return p.exprStatement()
	case p.at(token.Semicolon):
		p.advance()
		return nil
	default:
		p.errorUnexpected("statement")
		p.recover()
		return nil
	}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.trace("ifStmt")
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LParen, "if condition")
	cond := p.expression()
	p.expect(token.RParen, "if condition")
	then := p.statement()
	var els ast.Stmt
	if p.at(token.Else) {
		p.advance()
		els = p.statement()
	}
	return &ast.If{Position: pos, Condition: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.trace("whileStmt")
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LParen, "while condition")
	cond := p.expression()
	p.expect(token.RParen, "while condition")
	body := p.statement()
	return &ast.While{Position: pos, Condition: cond, Body: body}
}

func (p *Parser) doWhileStmt() ast.Stmt {
	p.trace("doWhileStmt")
	pos := p.cur.Pos
	p.advance()
	body := p.statement()
	p.expect(token.While, "do-while")
	p.expect(token.LParen, "do-while condition")
	cond := p.expression()
	p.expect(token.RParen, "do-while condition")
	p.expect(token.Semicolon, "do-while")
	return &ast.DoWhile{Position: pos, Body: body, Condition: cond}
}

func (p *Parser) forStmt() ast.Stmt {
	p.trace("forStmt")
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LParen, "for header")
	var init ast.Stmt
	if p.at(token.Semicolon) {
		p.advance()
	} else {
		init = p.statement()
	}
	var cond ast.Expr
	if !p.at(token.Semicolon) {
		cond = p.expression()
	}
	p.expect(token.Semicolon, "for condition")
	var incr ast.Expr
	if !p.at(token.RParen) {
		incr = p.expression()
	}
	p.expect(token.RParen, "for header")
	body := p.statement()
	return &ast.For{Position: pos, Init: init, Cond: cond, Incr: incr, Body: body}
}

func (p *Parser) breakStmt() ast.Stmt {
	p.trace("breakStmt")
	pos := p.cur.Pos
	p.advance()
	p.expect(token.Semicolon, "break")
	return &ast.Break{Position: pos}
}

func (p *Parser) returnStmt() ast.Stmt {
	p.trace("returnStmt")
	pos := p.cur.Pos
	p.advance()
	var val ast.Expr
	if !p.at(token.Semicolon) {
		val = p.expression()
	}
	p.expect(token.Semicolon, "return")
	return &ast.Return{Position: pos, Value: val}
}

func (p *Parser) exprStatement() ast.Stmt {
	p.trace("exprStatement")
	pos := p.cur.Pos
	expr := p.expression()
	p.expect(token.Semicolon, "expression statement")
	return &ast.ExprStmt{Position: pos, Expression: expr}
}

// tryArrayDecl speculatively parses the array-declaration statement form
// `identifier ':' integer ':' '=' '_' ... '_' ';'`. On any mismatch it
// rewinds the lexer and parser cursor and returns nil so the caller
// falls back to a generic expression statement — this is the one place
// the grammar needs more than the lexer's single save/restore slot, so
// the parser snapshots its own current-token cache alongside it.
func (p *Parser) tryArrayDecl() *ast.ArrayDecl {
	m := p.mark()
	pos := p.cur.Pos
	name := p.cur.StrValue
	p.advance() // identifier
	if !p.at(token.Colon) {
		p.restoreTo(m)
		return nil
	}
	p.advance()
	if !p.at(token.Number) {
		p.restoreTo(m)
		return nil
	}
	size := p.cur.IntValue
	p.advance()
	if !p.at(token.Colon) {
		p.restoreTo(m)
		return nil
	}
	p.advance()
	if !p.at(token.Equals) {
		p.restoreTo(m)
		return nil
	}
	p.advance()
	if !(p.at(token.Identifier) && strings.HasPrefix(p.cur.StrValue, "_")) {
		p.restoreTo(m)
		return nil
	}

	p.trace("arrayDecl")
	elems := p.arrayLiteralElements()
	p.expect(token.Semicolon, "array declaration")
	return &ast.ArrayDecl{Position: pos, Name: name, Size: int(size), Initializers: elems, ElementType: wordType()}
}

// arrayLiteralElements parses the `_v0, v1, ..._` comma-separated list.
// The opening/closing underscore is lexed as an ordinary Identifier
// token (underscore is a valid identifier-start character); see
// DESIGN.md for how the merged "_N" opening form is unpacked.
func (p *Parser) arrayLiteralElements() []ast.Expr {
	var elems []ast.Expr
	text := p.cur.StrValue
	if text == "_" {
		p.advance()
		elems = append(elems, p.expression())
	} else {
		numText := text[1:]
		val, err := strconv.ParseInt(numText, 10, 64)
		if err != nil {
			p.errorUnexpected("array literal (expected '_' or '_' followed by digits)")
		}
		elems = append(elems, &ast.LiteralInt{Position: p.cur.Pos, Value: val})
		p.advance()
	}
	for p.at(token.Comma) {
		p.advance()
		elems = append(elems, p.expression())
	}
	if p.at(token.Identifier) && p.cur.StrValue == "_" {
		p.advance()
	} else {
		p.errorUnexpected("array literal (expected closing '_')")
	}
	return elems
}

// expression is the grammar's assignment level, the lowest precedence
// and right-associative.
func (p *Parser) expression() ast.Expr {
	p.trace("expression")
	left := p.binaryExpr(1)
	if p.at(token.Equals) {
		pos := p.cur.Pos
		p.advance()
		value := p.expression()
		return &ast.Assignment{Position: pos, Target: left, Value: value}
	}
	return left
}

// precedence assigns each binary operator token kind a level; 0 means
// "not a binary operator".
func precedence(k token.Kind) int {
	switch k {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.Pipe:
		return 3
	case token.Caret:
		return 4
	case token.Ampersand:
		return 5
	case token.EqualsEquals, token.NotEquals:
		return 6
	case token.Less, token.LessEquals, token.Greater, token.GreaterEquals:
		return 7
	case token.Plus, token.Minus:
		return 8
	case token.Star, token.Slash, token.Percent:
		return 9
	default:
		return 0
	}
}

func (p *Parser) binaryExpr(minPrec int) ast.Expr {
	left := p.unary()
	for {
		prec := precedence(p.cur.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.binaryExpr(prec + 1)
		left = &ast.BinaryExpr{Position: op.Pos, Left: left, Operator: op.Kind, Right: right}
	}
}

func isUnaryPrefixOp(k token.Kind) bool {
	switch k {
	case token.Bang, token.Tilde, token.Minus, token.Plus, token.Ampersand, token.Star:
		return true
	default:
		return false
	}
}

func (p *Parser) unary() ast.Expr {
	if isUnaryPrefixOp(p.cur.Kind) {
		op := p.advance()
		operand := p.unary()
		return &ast.UnaryExpr{Position: op.Pos, Operand: operand, Operator: op.Kind, IsPrefix: true}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.at(token.LParen):
			pos := p.cur.Pos
			p.advance()
			inIndex := p.inIndex
			p.inIndex = false
			var args []ast.Expr
			if !p.at(token.RParen) {
				args = append(args, p.expression())
				for p.at(token.Comma) {
					p.advance()
					args = append(args, p.expression())
				}
			}
			p.inIndex = inIndex
			p.expect(token.RParen, "call arguments")
			expr = &ast.Call{Position: pos, Callee: expr, Arguments: args}
		case p.at(token.Colon) && !p.inIndex:
			pos := p.cur.Pos
			p.advance()
			p.inIndex = true
			index := p.expression()
			p.inIndex = false
			p.expect(token.Colon, "array access")
			expr = &ast.ArrayAccess{Position: pos, Array: expr, Index: index}
		default:
			return expr
		}
	}
}

func (p *Parser) primary() ast.Expr {
	p.trace("primary")
	switch {
	case p.at(token.Number):
		t := p.advance()
		return &ast.LiteralInt{Position: t.Pos, Value: t.IntValue}
	case p.at(token.CharLiteral):
		t := p.advance()
		return &ast.LiteralChar{Position: t.Pos, Value: t.RuneValue}
	case p.at(token.StringLiteral):
		t := p.advance()
		return &ast.LiteralString{Position: t.Pos, Value: t.StrValue}
	case p.at(token.True):
		t := p.advance()
		return &ast.LiteralBool{Position: t.Pos, Value: true}
	case p.at(token.False):
		t := p.advance()
		return &ast.LiteralBool{Position: t.Pos, Value: false}
	case p.at(token.Identifier):
		t := p.advance()
		return &ast.Identifier{Position: t.Pos, Name: t.StrValue, Type: wordType()}
	case p.at(token.LParen):
		p.advance()
		inIndex := p.inIndex
		p.inIndex = false
		e := p.expression()
		p.inIndex = inIndex
		p.expect(token.RParen, "parenthesized expression")
		return e
	default:
		p.errorUnexpected("expression")
		pos := p.cur.Pos
		if !p.at(token.EOF) {
			p.advance()
		}
		return &ast.LiteralInt{Position: pos, Value: 0}
	}
}
