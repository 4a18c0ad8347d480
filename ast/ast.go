// Package ast は minimonkey の抽象構文木（AST）を定義するパッケージ。
// パーサーがトークン列から変換した結果がこのASTになる。
// ASTの各ノードは Node インターフェースを実装し、
// 文（Statement）と式（Expression）の2種類に大別される。
//
// 各ノードの String() は決定的な正規形のソースコードを返す。
// 正規形をもう一度パースすると、同じ正規形を持つASTが得られる。
package ast

import (
	"bytes"
	"strings"

	"minimonkey/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// TokenLiteral() はノードを導入したトークンのリテラル値を返す（診断用）。
// String() はノードを正規形のソースコードに変換する。
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement は「文」を表すノードのインターフェース。
// statementNode() は非公開のマーカーメソッドで、
// このパッケージの外で新しい文の種類を作れないようにしている。
type Statement interface {
	Node
	statementNode()
}

// Expression は「式」を表すノードのインターフェース。
type Expression interface {
	Node
	expressionNode()
}

// Program はASTのルートノード。文（Statement）の列で構成される。
type Program struct {
	Statements []Statement
}

// TokenLiteral は最初の文のトークンリテラルを返す。
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String はプログラム全体を文字列に変換する。文は改行で区切る。
func (p *Program) String() string {
	var out bytes.Buffer
	writeStatements(&out, p.Statements, "\n")
	return out.String()
}

// writeStatements は文の列を sep で区切って書き出す。
// 式文の後ろに別の文が続く場合は ";" を付ける。
// 付けないと `(a)` `(b)` が再パース時に呼び出し `(a)(b)` になってしまう。
func writeStatements(out *bytes.Buffer, stmts []Statement, sep string) {
	for i, s := range stmts {
		if i > 0 {
			out.WriteString(sep)
		}
		out.WriteString(s.String())
		if _, ok := s.(*ExpressionStatement); ok && i < len(stmts)-1 {
			out.WriteString(";")
		}
	}
}

// =====================
// 文（Statements）
// =====================

// LetStatement は `let x = <expression>;` という変数束縛の文を表す。
type LetStatement struct {
	Token token.Token // token.LET トークン
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }

// String は `let <name> = <value>;` の形式で文字列を返す。
func (ls *LetStatement) String() string {
	var out bytes.Buffer

	out.WriteString(ls.TokenLiteral() + " ")
	out.WriteString(ls.Name.String())
	out.WriteString(" = ")

	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}

	out.WriteString(";")

	return out.String()
}

// ReturnStatement は `return <expression>;` というreturn文を表す。
type ReturnStatement struct {
	Token       token.Token // 'return' トークン
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }

// String は `return <value>;` の形式で文字列を返す。
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString(rs.TokenLiteral() + " ")

	if rs.ReturnValue != nil {
		out.WriteString(rs.ReturnValue.String())
	}

	out.WriteString(";")

	return out.String()
}

// ExpressionStatement は式だけからなる文を表す（例: `x + 10;`）。
type ExpressionStatement struct {
	Token      token.Token // その式の最初のトークン
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }

func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement は `{ ... }` で囲まれたブロック（文の列）を表す。
// if式や関数リテラルの本体部分で使われる。
type BlockStatement struct {
	Token      token.Token // '{' トークン
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }

// String は `{ <stmt> <stmt> }` の形式で返す。空のブロックは `{ }`。
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	writeStatements(&out, bs.Statements, " ")
	if len(bs.Statements) > 0 {
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

// =====================
// 式（Expressions）
// =====================

// Identifier は変数名などの識別子を表す。
type Identifier struct {
	Token token.Token // token.IDENT トークン
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// Boolean は true/false のブーリアンリテラルを表す。
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// IntegerLiteral は整数リテラル（例: 5, 100）を表す。
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// StringLiteral は文字列リテラル（例: "hello"）を表す。
// Value は両端の '"' を含まない中身。
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// PrefixExpression は前置演算子式（例: !true, -5）を表す。
type PrefixExpression struct {
	Token    token.Token // 前置演算子のトークン（例: !）
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }

// String は `(<operator><right>)` の形式で返す（例: "(-5)"）。
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

// InfixExpression は中置演算子式（例: 5 + 10, a == b）を表す。
type InfixExpression struct {
	Token    token.Token // 演算子トークン（例: +）
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }

// String は `(<left> <operator> <right>)` の形式で返す（例: "(5 + 10)"）。
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

// IfExpression は `if (<condition>) <consequence> else <alternative>` を表す。
// Alternative は省略可能（nil）。
type IfExpression struct {
	Token       token.Token // 'if' トークン
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }

// String は `if (<condition>) { ... } else { ... }` の形式で返す。
// 条件式は常に括弧で囲む（呼び出し式が条件でも再パースできるように）。
func (ie *IfExpression) String() string {
	var out bytes.Buffer

	out.WriteString("if (")
	out.WriteString(ie.Condition.String())
	out.WriteString(") ")
	out.WriteString(ie.Consequence.String())

	if ie.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(ie.Alternative.String())
	}

	return out.String()
}

// FunctionLiteral は関数リテラル `fn(<params>) <body>` を表す。
type FunctionLiteral struct {
	Token      token.Token // 'fn' トークン
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }

// String は `fn(<params>) { <body> }` の形式で返す。
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer

	out.WriteString(fl.TokenLiteral())
	out.WriteString("(")
	out.WriteString(JoinIdentifiers(fl.Parameters))
	out.WriteString(") ")
	out.WriteString(fl.Body.String())

	return out.String()
}

// JoinIdentifiers は仮引数リストを ", " 区切りで連結する。
// object.Function の Inspect() でも同じ形式を使う。
func JoinIdentifiers(idents []*Identifier) string {
	params := make([]string, 0, len(idents))
	for _, p := range idents {
		params = append(params, p.String())
	}
	return strings.Join(params, ", ")
}

// CallExpression は関数呼び出し `<function>(<args>)` を表す。
type CallExpression struct {
	Token     token.Token // '(' トークン
	Function  Expression  // Identifier、FunctionLiteral、別の呼び出し式など
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }

// String は `<function>(<args>)` の形式で返す。
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := make([]string, 0, len(ce.Arguments))
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

// BadExpression はパースに失敗した箇所の代わりに置かれる番兵ノード。
// パーサーはエラーを記録したうえでこのノードを返し、解析を続ける。
// 評価器はこのノードを評価せずエラーを返す。
type BadExpression struct {
	Token token.Token // 解析に失敗した位置のトークン
}

func (be *BadExpression) expressionNode()      {}
func (be *BadExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BadExpression) String() string       { return "<bad expression>" }
