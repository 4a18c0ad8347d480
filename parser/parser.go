// Package parser は minimonkey のパーサーを実装するパッケージ。
// Pratt Parser（トップダウン演算子順位解析法）を使って、
// トークン列をAST（抽象構文木）に変換する。
//
// Pratt Parserの核心的なアイデア:
// - 各トークンタイプに「前置解析関数」と「中置解析関数」を関連付ける
// - 演算子の優先順位（precedence）に基づいて正しい構文木を構築する
//
// 構文エラーは文字列として蓄積し、最初のエラーで解析を止めない。
// 失敗した式の位置には ast.BadExpression を置く。
package parser

import (
	"fmt"
	"io"
	"strconv"

	"minimonkey/ast"
	"minimonkey/lexer"
	"minimonkey/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。
// 例: * は + より優先順位が高いので、`1 + 2 * 3` は `1 + (2 * 3)` になる。
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > または <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X または !X
	CALL        // myFunction(X)
)

// precedences はトークンタイプから優先順位への対応表。
var precedences = map[token.TokenType]int{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
}

type (
	// prefixParseFn は前置解析関数の型。
	// トークンが式の先頭に来た場合に呼ばれる（例: -5, !true, 識別子, 整数リテラル）。
	prefixParseFn func() ast.Expression
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、中置演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Expression) ast.Expression
)

// Parser はレキサーからトークンを読み取り、ASTを構築する。
type Parser struct {
	l      *lexer.Lexer // トークンを供給するレキサー
	errors []string     // パース中に発生したエラーメッセージ

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	// 各トークンタイプに対応する解析関数を登録するマップ
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	// synced は読み飛ばし（synchronize）を済ませたエラーの件数。
	// ネストした文のエラーで外側の文まで読み飛ばさないようにする。
	synced int

	// incomplete は入力の終端に達したことが原因のエラーがあったかどうか。
	incomplete bool

	// depth は curToken 時点の波括弧の深さ。'{' で1増え、'}' で1減る。
	// stmtDepth はパース中の文が始まった深さ。
	depth     int
	stmtDepth int

	tracer *tracer
}

// New はレキサーからパーサーを生成する。
// 各トークンタイプに対して適切な解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)

	// '(' は関数呼び出しの中置演算子として扱う（例: add(1, 2)）
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

// Parse はソースコードをパースし、ASTとエラーメッセージを返す。
// エラーが1つでもあれば、返されたASTを評価してはならない。
func Parse(input string) (*ast.Program, []string) {
	p := New(lexer.New(input))
	program := p.ParseProgram()
	return program, p.Errors()
}

// SetTrace はトレース出力先を設定する。nil を渡すとトレースを止める。
func (p *Parser) SetTrace(w io.Writer) {
	if w == nil {
		p.tracer = nil
		return
	}
	p.tracer = &tracer{out: w}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()

	switch p.curToken.Type {
	case token.LBRACE:
		p.depth++
	case token.RBRACE:
		p.depth--
	}
}

// atEnclosingBrace は curToken がパース中の文を囲むブロックの閉じ括弧かどうかを返す。
// 壊れた文の式がブロックの '}' まで読み進んだときに true になる。
func (p *Parser) atEnclosingBrace() bool {
	return p.curTokenIs(token.RBRACE) && p.depth < p.stmtDepth
}

// skipSemicolon は省略可能なセミコロンを読み飛ばす。
// 囲むブロックの '}' の上にいるとき、その後ろの ';' は外側の文のもの。
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) && !p.atEnclosingBrace() {
		p.nextToken()
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進めてtrueを返す。
// 期待と違う場合はエラーを追加してfalseを返す。
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors はパース中に蓄積されたエラーメッセージのスライスを返す。
func (p *Parser) Errors() []string {
	return p.errors
}

// Incomplete は入力の途中で終端に達したためにエラーになったかを返す。
// REPL はこれを見て継続行の入力を求める。
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

func (p *Parser) peekError(t token.TokenType) {
	if p.peekTokenIs(token.EOF) {
		p.incomplete = true
	}
	msg := fmt.Sprintf("expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	if t == token.EOF {
		p.incomplete = true
	}
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

// listError はパラメータ・引数リストが閉じ括弧の前に終端に達した場合のエラー。
func (p *Parser) listError(what string) {
	p.incomplete = true
	p.errors = append(p.errors, fmt.Sprintf("invalid %s list", what))
}

// bad は現在のトークン位置に番兵ノードを作る。
func (p *Parser) bad() ast.Expression {
	return &ast.BadExpression{Token: p.curToken}
}

// =====================
// プログラムと文のパース
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// EOF に到達するまで文を1つずつパースしてProgramに追加していく。
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement は現在のトークンに応じて適切な種類の文をパースする。
// let → LetStatement, return → ReturnStatement, それ以外 → ExpressionStatement
//
// 文の途中でエラーが起きた場合は、その文の終わりまで読み飛ばしてから戻る。
func (p *Parser) parseStatement() ast.Statement {
	defer p.untrace(p.trace("parseStatement"))

	outer := p.stmtDepth
	p.stmtDepth = p.depth
	defer func() { p.stmtDepth = outer }()

	var stmt ast.Statement
	switch p.curToken.Type {
	case token.LET:
		stmt = p.parseLetStatement()
	case token.RETURN:
		stmt = p.parseReturnStatement()
	default:
		stmt = p.parseExpressionStatement()
	}

	if len(p.errors) > p.synced {
		p.synchronize()
		p.synced = len(p.errors)
	}

	return stmt
}

// synchronize は壊れた文の残りを読み飛ばす。
// 文と同じ深さにある ';' に到達するか、次のトークンが
// 囲むブロックの '}' または EOF になったところで止まる。
// 囲むブロックの '}' の上にいる場合はそれを消費せずに止まる。
// 呼び出し側はこの後 nextToken() で次の文の先頭に進む。
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.atEnclosingBrace() {
			return
		}
		if p.peekTokenIs(token.EOF) {
			return
		}
		if p.depth == p.stmtDepth &&
			(p.curTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE)) {
			return
		}

		p.nextToken()
	}
}

// parseLetStatement は `let <identifier> = <expression>;` をパースする。
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	// let の次は識別子が来なければならない
	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	// セミコロンは省略可能
	p.skipSemicolon()

	return stmt
}

// parseReturnStatement は `return <expression>;` をパースする。
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)

	p.skipSemicolon()

	return stmt
}

// parseExpressionStatement は式だけからなる文をパースする。
func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)

	p.skipSemicolon()

	return stmt
}

// =====================
// 式のパース（Pratt Parser の心臓部）
// =====================

// parseExpression はPratt Parserのメインループ。
// 1. まず現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
// 2. 次のトークンの優先順位が現在の優先順位より高い間、
//    中置解析関数を呼んで左辺に演算子と右辺を結合していく
//
// 例: `1 + 2 * 3` の場合
//   - 前置関数で 1 を取得
//   - + の優先順位(SUM) > 引数の優先順位(LOWEST) なので、中置関数で (1 + ...) を構築
//   - 中置関数内で parseExpression(SUM) を再帰呼び出し
//   - 2 を前置関数で取得し、* の優先順位(PRODUCT) > SUM なので (2 * 3) を構築
//   - 結果: (1 + (2 * 3))
func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return p.bad()
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// =====================
// 各種式の解析関数
// =====================

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral は整数リテラルを int64 に変換する。
// 桁あふれなどで変換に失敗した場合はエラーを追加して番兵ノードを返す。
func (p *Parser) parseIntegerLiteral() ast.Expression {
	defer p.untrace(p.trace("parseIntegerLiteral"))

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		msg := fmt.Sprintf("could not parse %q as integer", p.curToken.Literal)
		p.errors = append(p.errors, msg)
		return p.bad()
	}

	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parsePrefixExpression は前置演算子式（!x, -5 など）をパースする。
// 右辺は PREFIX 優先順位でパースするので `-a * b` は `((-a) * b)` になる。
func (p *Parser) parsePrefixExpression() ast.Expression {
	defer p.untrace(p.trace("parsePrefixExpression"))

	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)

	return expression
}

// parseInfixExpression は中置演算子式（5 + 10 など）をパースする。
// 右辺は演算子自身の優先順位でパースする。同じ優先順位の演算子が続くと
// ループ条件（precedence < peekPrecedence）を満たさないので左結合になる。
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	defer p.untrace(p.trace("parseInfixExpression"))

	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

// parseGroupedExpression は括弧で囲まれた式 `(expression)` をパースする。
// 括弧はグループ化のためだけに使われ、AST上には残らない。
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return p.bad()
	}

	return exp
}

// parseIfExpression は `if (<condition>) { ... } else { ... }` をパースする。
func (p *Parser) parseIfExpression() ast.Expression {
	defer p.untrace(p.trace("parseIfExpression"))

	expression := &ast.IfExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return p.bad()
	}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return p.bad()
	}

	if !p.expectPeek(token.LBRACE) {
		return p.bad()
	}

	consequence, ok := p.parseBlockStatement()
	if !ok {
		return p.bad()
	}
	expression.Consequence = consequence

	// else節がある場合
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if !p.expectPeek(token.LBRACE) {
			return p.bad()
		}

		alternative, ok := p.parseBlockStatement()
		if !ok {
			return p.bad()
		}
		expression.Alternative = alternative
	}

	return expression
}

// parseBlockStatement は `{ ... }` 内の文をパースする。
// '}' に到達するまで文をパースし続ける。'}' の前に EOF に達した場合は
// エラーを追加して ok=false を返す。
func (p *Parser) parseBlockStatement() (*ast.BlockStatement, bool) {
	defer p.untrace(p.trace("parseBlockStatement"))

	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}
	depth := p.depth

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.incomplete = true
			p.errors = append(p.errors, fmt.Sprintf(
				"expected next token to be %s, got %s instead", token.RBRACE, token.EOF))
			return nil, false
		}

		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		// 壊れた文がこのブロックの '}' で止まった
		if p.curTokenIs(token.RBRACE) && p.depth < depth {
			break
		}
		p.nextToken()
	}

	return block, true
}

// parseFunctionLiteral は `fn(<params>) { <body> }` をパースする。
func (p *Parser) parseFunctionLiteral() ast.Expression {
	defer p.untrace(p.trace("parseFunctionLiteral"))

	lit := &ast.FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return p.bad()
	}

	params, ok := p.parseFunctionParameters()
	if !ok {
		return p.bad()
	}
	lit.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return p.bad()
	}

	body, ok := p.parseBlockStatement()
	if !ok {
		return p.bad()
	}
	lit.Body = body

	return lit
}

// parseFunctionParameters は関数のパラメータリスト `(x, y, z)` をパースする。
// 文法は `()` または `(` IDENT (`,` IDENT)* `)` のみ。
// 区切りのカンマが無い、末尾にカンマがある、といった入力はエラーにする。
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	// パラメータが0個の場合: fn() { ... }
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	for {
		if p.peekTokenIs(token.EOF) {
			p.listError("parameter")
			return nil, false
		}
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers,
			&ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		switch {
		case p.peekTokenIs(token.COMMA):
			p.nextToken()
		case p.peekTokenIs(token.RPAREN):
			p.nextToken()
			return identifiers, true
		case p.peekTokenIs(token.EOF):
			p.listError("parameter")
			return nil, false
		default:
			p.peekError(token.RPAREN)
			return nil, false
		}
	}
}

// parseCallExpression は関数呼び出し `<expression>(<args>)` をパースする。
// 左辺の式（関数）を引数として受け取り、引数リストをパースする。
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	defer p.untrace(p.trace("parseCallExpression"))

	exp := &ast.CallExpression{Token: p.curToken, Function: function}

	args, ok := p.parseCallArguments()
	if !ok {
		return p.bad()
	}
	exp.Arguments = args

	return exp
}

// parseCallArguments は関数呼び出しの引数リスト `(a, b, c)` をパースする。
// パラメータリストと同じく、要素はカンマで厳密に区切られていなければならない。
func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	// 引数が0個の場合: add()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}

	for {
		if p.peekTokenIs(token.EOF) {
			p.listError("argument")
			return nil, false
		}
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if _, ok := arg.(*ast.BadExpression); ok {
			// エラーは記録済み
			return nil, false
		}
		args = append(args, arg)

		switch {
		case p.peekTokenIs(token.COMMA):
			p.nextToken()
		case p.peekTokenIs(token.RPAREN):
			p.nextToken()
			return args, true
		case p.peekTokenIs(token.EOF):
			p.listError("argument")
			return nil, false
		default:
			p.peekError(token.RPAREN)
			return nil, false
		}
	}
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
