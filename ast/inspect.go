// inspect.go は ASTを深さ優先でたどる Inspect を提供する。
// 親ノードを先に訪問し、その後に子ノードを左から右へ訪問する（前順走査）。
package ast

// Inspect は node から始めてASTを走査し、各ノードで f を呼ぶ。
// f が false を返したノードの子は訪問しない。
// nil の子ノード（省略された else 節など）は訪問しない。
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch node := node.(type) {

	case *Program:
		for _, statement := range node.Statements {
			Inspect(statement, f)
		}

	case *LetStatement:
		Inspect(node.Name, f)
		inspectExpression(node.Value, f)

	case *ReturnStatement:
		inspectExpression(node.ReturnValue, f)

	case *ExpressionStatement:
		inspectExpression(node.Expression, f)

	case *BlockStatement:
		for _, statement := range node.Statements {
			Inspect(statement, f)
		}

	case *PrefixExpression:
		inspectExpression(node.Right, f)

	case *InfixExpression:
		inspectExpression(node.Left, f)
		inspectExpression(node.Right, f)

	case *IfExpression:
		inspectExpression(node.Condition, f)
		Inspect(node.Consequence, f)
		if node.Alternative != nil {
			Inspect(node.Alternative, f)
		}

	case *FunctionLiteral:
		for _, param := range node.Parameters {
			Inspect(param, f)
		}
		Inspect(node.Body, f)

	case *CallExpression:
		inspectExpression(node.Function, f)
		for _, arg := range node.Arguments {
			inspectExpression(arg, f)
		}

	case *Identifier, *IntegerLiteral, *Boolean, *StringLiteral, *BadExpression:
		// 葉ノード
	}
}

// inspectExpression はインターフェース値が nil の式を読み飛ばす。
func inspectExpression(exp Expression, f func(Node) bool) {
	if exp != nil {
		Inspect(exp, f)
	}
}

// Count は node 以下のノード数を返す。
func Count(node Node) int {
	n := 0
	Inspect(node, func(Node) bool {
		n++
		return true
	})
	return n
}

// HasBadExpression は node 以下に BadExpression が含まれるかを返す。
func HasBadExpression(node Node) bool {
	found := false
	Inspect(node, func(n Node) bool {
		if _, ok := n.(*BadExpression); ok {
			found = true
		}
		return !found
	})
	return found
}
