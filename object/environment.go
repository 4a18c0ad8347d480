// environment.go は変数の環境（スコープ）を管理する。
// Environment は変数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
// これにより、レキシカルスコープ（静的スコープ）とクロージャが実現される。
package object

// NewEnclosedEnvironment は外側の環境を持つ新しい環境を作成する。
// 関数呼び出し時に使用し、呼び出し元ではなく関数の定義時環境を outer にする。
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// NewEnvironment は新しい空の環境を作成する。
// プログラムのトップレベル環境として使用する。
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil}
}

// Environment は変数のスコープを表す構造体。
// store は現在のスコープの変数を保持し、
// outer は外側のスコープへの参照（なければnil）。
//
// 並行に使うことは想定していない。
type Environment struct {
	store map[string]Object
	outer *Environment
}

// Get は変数名から値を検索する。
// 現在のスコープになければ外側のスコープを順に探す。
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Set は変数を現在のスコープに束縛する。外側のスコープは変更しない。
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Outer は外側の環境を返す。トップレベルでは nil。
func (e *Environment) Outer() *Environment {
	return e.outer
}
