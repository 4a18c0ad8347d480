// Package lexer は minimonkey のレキサー（字句解析器）を実装するパッケージ。
// ソースコードの文字列を先頭から1文字ずつ読み進め、トークン列に分割する。
//
// レキサーには失敗という概念がない。どの規則にも当てはまらない文字は
// ILLEGAL トークンとして返し、エラーの報告はパーサーに任せる。
package lexer

import (
	"unicode/utf8"

	"minimonkey/token"
)

// Lexer は入力文字列とその読み取り位置を保持する。
type Lexer struct {
	input        string
	position     int  // 現在の文字の位置（ch の位置）
	readPosition int  // 次に読む文字の位置（position の次）
	ch           byte // 現在検査中の文字。入力の終端では 0
}

// New は入力文字列からレキサーを生成し、最初の1文字を読み込む。
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken は次のトークンを返し、読み取り位置を進める。
// 入力の終端に達した後は何度呼んでも EOF トークンを返す。
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		// == かどうかを1文字先読みで判定する
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: string(ch) + string(l.ch)}
		} else {
			tok = newToken(token.ASSIGN, l.ch)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '!':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: string(ch) + string(l.ch)}
		} else {
			tok = newToken(token.BANG, l.ch)
		}
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '<':
		tok = newToken(token.LT, l.ch)
	case '>':
		tok = newToken(token.GT, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '"':
		str, ok := l.readString()
		if ok {
			tok = token.Token{Type: token.STRING, Literal: str}
		} else {
			// 閉じていない文字列は ILLEGAL として開始位置以降をまとめて返す
			tok = token.Token{Type: token.ILLEGAL, Literal: `"` + str}
		}
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		return tok
	default:
		if isLetter(l.ch) {
			// readIdentifier は自分で位置を進めるので、ここで return する
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.INT
			tok.Literal = l.readNumber()
			return tok
		} else {
			tok = l.readIllegal()
		}
	}

	l.readChar()
	return tok
}

// readChar は次の1文字を読み込み、位置を進める。
// 終端に達したら ch を 0（NUL）にする。
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	if l.readPosition <= len(l.input) {
		l.readPosition++
	}
}

// peekChar は位置を進めずに次の1文字を覗き見る。
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readIdentifier は英字とアンダースコアが続く限り読み進める。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber は数字が続く限り読み進める。符号はここでは扱わない。
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString は '"' の次から閉じ '"' の直前までを返す。
// 閉じ '"' が見つからずに終端に達した場合は ok=false を返す。
// 終了時、ch は閉じ '"'（または終端の 0）を指している。
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			return l.input[position:l.position], true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

// readIllegal は現在位置の1文字（UTF-8 の1文字分）を ILLEGAL トークンにする。
// UTF-8 として正しくないバイトは1バイトずつ扱う。
// 終了時、ch はその文字の最後のバイトを指している。
func (l *Lexer) readIllegal() token.Token {
	_, size := utf8.DecodeRuneInString(l.input[l.position:])
	tok := token.Token{Type: token.ILLEGAL, Literal: l.input[l.position : l.position+size]}
	for i := 1; i < size; i++ {
		l.readChar()
	}
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
