// Package evaluator は minimonkey のTree-walking評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Object としての結果を返す。
//
// 評価時のエラーは Go の error ではなく object.Error という値で表す。
// 各評価規則は自分の処理の前にオペランドがエラーかどうかを確認し、
// エラーであればそのまま呼び出し元へ返す。
package evaluator

import (
	"context"
	"log/slog"

	"minimonkey/ast"
	"minimonkey/object"
)

// シングルトンオブジェクト。object パッケージのものをそのまま使う。
var (
	NULL  = object.NULL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Eval はASTノードを評価してオブジェクトを返す、評価器のメイン関数。
// ノードの型に応じたswitch文で処理を分岐する。
// 全てのノードの種類に対して必ず nil でないオブジェクトを返す。
func Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// === 文（Statements）===

	case *ast.Program:
		return evalProgram(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)

	// ReturnStatement: 戻り値を評価し、ReturnValueでラップする
	case *ast.ReturnStatement:
		val := Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	// LetStatement: 右辺を評価し、現在の環境に変数を束縛する
	case *ast.LetStatement:
		val := Eval(node.Value, env)
		if isError(val) {
			return val
		}
		return env.Set(node.Name.Value, val)

	// === 式（Expressions）===

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return object.NativeBool(node.Value)

	case *ast.PrefixExpression:
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}

		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}

		return evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	// FunctionLiteral: 定義時の環境を参照として保持する（クロージャ）
	// 本体はここでは評価しない
	case *ast.FunctionLiteral:
		params := node.Parameters
		body := node.Body
		return &object.Function{Parameters: params, Env: env, Body: body}

	case *ast.CallExpression:
		function := Eval(node.Function, env)
		if isError(function) {
			return function
		}

		// 引数を左から右に評価する
		args := evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}

		return applyFunction(function, args)

	case *ast.BadExpression:
		return newError("cannot evaluate unparsed expression")
	}

	return newError("unknown node: %T", node)
}

// evalProgram はプログラム全体（文のリスト）を評価する。
// 各文を順に評価し、ReturnValueまたはErrorに遭遇したら即座に返す。
// ReturnValueの場合は中身を取り出して返す（プログラムレベルではアンラップ）。
func evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = NULL

	for _, statement := range program.Statements {
		result = Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlockStatement はブロック内の文を評価する。
// evalProgram との違い: ReturnValueをアンラップしない。
// これにより、ネストされたブロックからのreturnが正しく伝播する。
// 例: if (true) { if (true) { return 10; } return 1; } → 10
func evalBlockStatement(
	block *ast.BlockStatement,
	env *object.Environment,
) object.Object {
	var result object.Object = NULL

	for _, statement := range block.Statements {
		result = Eval(statement, env)

		rt := result.Type()
		if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
			return result
		}
	}

	return result
}

// =====================
// 前置演算子の評価
// =====================

func evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return evalBangOperatorExpression(right)
	case "-":
		return evalMinusPrefixOperatorExpression(right)
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

// evalBangOperatorExpression は ! 演算子を評価する。
// !true → false, !false → true, !null → true, それ以外 → false
func evalBangOperatorExpression(right object.Object) object.Object {
	return object.NativeBool(!isTruthy(right))
}

// evalMinusPrefixOperatorExpression は - 前置演算子を評価する。整数にのみ適用可能。
func evalMinusPrefixOperatorExpression(right object.Object) object.Object {
	if right.Type() != object.INTEGER_OBJ {
		return newError("unknown operator: -%s", right.Type())
	}

	value := right.(*object.Integer).Value
	return &object.Integer{Value: -value}
}

// =====================
// 中置演算子の評価
// =====================

// evalInfixExpression は中置演算子式を評価する。
// 両辺の型に応じて処理を分岐する。
func evalInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left, right)
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)
	// == と != はポインタ比較（真偽値と null はシングルトンなので正しく動く）
	case operator == "==":
		return object.NativeBool(left == right)
	case operator == "!=":
		return object.NativeBool(left != right)
	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s",
			left.Type(), operator, right.Type())
	default:
		return newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalIntegerInfixExpression は整数同士の中置演算を評価する。
// 除算は整数除算（0方向への切り捨て）。
func evalIntegerInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	leftVal := left.(*object.Integer).Value
	rightVal := right.(*object.Integer).Value

	switch operator {
	case "+":
		return &object.Integer{Value: leftVal + rightVal}
	case "-":
		return &object.Integer{Value: leftVal - rightVal}
	case "*":
		return &object.Integer{Value: leftVal * rightVal}
	case "/":
		if rightVal == 0 {
			return newError("division by zero")
		}
		return &object.Integer{Value: leftVal / rightVal}
	case "<":
		return object.NativeBool(leftVal < rightVal)
	case ">":
		return object.NativeBool(leftVal > rightVal)
	case "==":
		return object.NativeBool(leftVal == rightVal)
	case "!=":
		return object.NativeBool(leftVal != rightVal)
	default:
		return newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalStringInfixExpression は文字列同士の中置演算を評価する。
// + は連結、== と != は値で比較する。
func evalStringInfixExpression(
	operator string,
	left, right object.Object,
) object.Object {
	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value

	switch operator {
	case "+":
		return &object.String{Value: leftVal + rightVal}
	case "==":
		return object.NativeBool(leftVal == rightVal)
	case "!=":
		return object.NativeBool(leftVal != rightVal)
	default:
		return newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// =====================
// if式の評価
// =====================

// evalIfExpression は if式を評価する。
// 条件がtruthyならConsequenceを、falsyでAlternativeがあればAlternativeを評価する。
// どちらにも当てはまらなければNULLを返す。
func evalIfExpression(
	ie *ast.IfExpression,
	env *object.Environment,
) object.Object {
	condition := Eval(ie.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return Eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return Eval(ie.Alternative, env)
	} else {
		return NULL
	}
}

// =====================
// 識別子と変数
// =====================

// evalIdentifier は環境のチェーンを内側から順に探して値を返す。
func evalIdentifier(
	node *ast.Identifier,
	env *object.Environment,
) object.Object {
	val, ok := env.Get(node.Value)
	if !ok {
		return newError("identifier not found: %s", node.Value)
	}

	return val
}

// =====================
// ユーティリティ関数
// =====================

// isTruthy はオブジェクトが「真」とみなされるか判定する。
// null → false, false → false, それ以外 → true
func isTruthy(obj object.Object) bool {
	switch obj {
	case NULL:
		return false
	case TRUE:
		return true
	case FALSE:
		return false
	default:
		return true
	}
}

func newError(format string, a ...interface{}) *object.Error {
	return object.Errorf(format, a...)
}

// isError はオブジェクトがエラーかどうか判定する。
// 各評価関数でエラーチェックに使用し、エラーの伝播を実現する。
func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

// =====================
// 関数呼び出し
// =====================

// evalExpressions は式のリスト（関数引数など）を左から右に評価する。
// 途中でエラーが発生したら、エラーだけを含むスライスを返す。
func evalExpressions(
	exps []ast.Expression,
	env *object.Environment,
) []object.Object {
	result := make([]object.Object, 0, len(exps))

	for _, e := range exps {
		evaluated := Eval(e, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

// applyFunction は関数オブジェクトに引数を適用して実行する。
// 1. 関数の定義時環境を外側スコープとする新しい環境を作成
// 2. 引数をパラメータ名に束縛
// 3. 関数本体を新しい環境で評価
// 4. ReturnValueをアンラップして結果を返す
func applyFunction(fn object.Object, args []object.Object) object.Object {
	function, ok := fn.(*object.Function)
	if !ok {
		return newError("not a function: %s", fn.Type())
	}

	if len(args) != len(function.Parameters) {
		return newError("wrong number of arguments: want=%d, got=%d",
			len(function.Parameters), len(args))
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("function call",
			slog.Int("argument-count", len(args)),
			slog.Int("scope-depth", scopeDepth(function.Env)+1))
	}

	extendedEnv := extendFunctionEnv(function, args)
	evaluated := Eval(function.Body, extendedEnv)
	return unwrapReturnValue(evaluated)
}

// extendFunctionEnv は関数呼び出し用の新しい環境を作成する。
// 呼び出し元の環境ではなく、関数の定義時環境を外側にするのがクロージャの核心。
// 定義時環境そのものには何も書き込まない。
func extendFunctionEnv(
	fn *object.Function,
	args []object.Object,
) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for paramIdx, param := range fn.Parameters {
		env.Set(param.Value, args[paramIdx])
	}

	return env
}

// unwrapReturnValue はReturnValueのラップを外して値だけを返す。
// これにより、returnが関数の外側まで伝播しないようにする。
func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}

	return obj
}

func scopeDepth(env *object.Environment) int {
	depth := 0
	for e := env; e != nil; e = e.Outer() {
		depth++
	}
	return depth
}
