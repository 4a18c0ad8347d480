// Package object は minimonkey のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべてこのパッケージの Object として表現される。
// 全てのオブジェクトは Object インターフェースを実装する。
//
// オブジェクトは生成後に変更されない。
package object

import (
	"bytes"
	"fmt"

	"minimonkey/ast"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
// エラーメッセージ（"type mismatch: INTEGER + BOOLEAN" など）にもそのまま使われる。
type ObjectType string

const (
	NULL_OBJ  = "NULL"  // null値
	ERROR_OBJ = "ERROR" // エラーオブジェクト

	INTEGER_OBJ = "INTEGER" // 整数
	BOOLEAN_OBJ = "BOOLEAN" // 真偽値
	STRING_OBJ  = "STRING"  // 文字列

	RETURN_VALUE_OBJ = "RETURN_VALUE" // return文の戻り値をラップするオブジェクト

	FUNCTION_OBJ = "FUNCTION" // 関数オブジェクト
)

// Object は全ての値が実装するインターフェース。
// Type() はオブジェクトの種類を返し、Inspect() は値の文字列表現を返す。
// objectNode() はマーカーメソッドで、このパッケージの外で種類を増やせないようにする。
type Object interface {
	Type() ObjectType
	Inspect() string
	objectNode()
}

// シングルトンオブジェクト。
// true, false, null は常に同じオブジェクトを使い回すことで、
// ポインタ比較で等値判定できるようにする。
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// NativeBool はGoのbool値をシングルトンのBooleanオブジェクトに変換する。
func NativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Integer は整数値を表すオブジェクト。
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) objectNode()      {}

// Boolean は真偽値を表すオブジェクト。TRUE と FALSE 以外を作ってはいけない。
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) objectNode()      {}

// Null は値が存在しないことを表す。NULL 以外を作ってはいけない。
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }
func (n *Null) objectNode()      {}

// String は文字列値を表すオブジェクト。
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) objectNode()      {}

// ReturnValue はreturn文の戻り値をラップするオブジェクト。
// 評価器の内部でだけ使われ、関数呼び出しやプログラムの境界で必ず外される。
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) objectNode()      {}

// Error はエラーを表すオブジェクト。
// エラーは値として評価中に伝播し、以降の評価を停止させる。
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
func (e *Error) objectNode()      {}

// Errorf は書式付きメッセージからエラーオブジェクトを生成する。
func Errorf(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// Function は関数オブジェクト。
// Parameters は仮引数リスト、Body は関数本体、Env は定義時の環境。
// Env は定義したスコープと共有される参照で、呼び出しのたびに
// この Env を外側とする新しい環境が作られる。
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) objectNode()      {}

// Inspect は `fn(params) { body }` の形式で返す。
func (f *Function) Inspect() string {
	var out bytes.Buffer

	out.WriteString("fn(")
	out.WriteString(ast.JoinIdentifiers(f.Parameters))
	out.WriteString(") ")
	out.WriteString(f.Body.String())

	return out.String()
}
