package ast

import (
	"testing"

	"minimonkey/token"
)

// TestString はASTノードのString()メソッドが正しく動作するかテストする。
// `let myVar = anotherVar;` というプログラムを手動でAST構築し、
// String()の出力が期待通りかを検証する。
func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				Token: token.Token{Type: token.LET, Literal: "let"},
				Name: &Identifier{
					Token: token.Token{Type: token.IDENT, Literal: "myVar"},
					Value: "myVar",
				},
				Value: &Identifier{
					Token: token.Token{Type: token.IDENT, Literal: "anotherVar"},
					Value: "anotherVar",
				},
			},
		},
	}

	if program.String() != "let myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", program.String())
	}
}

func ident(name string) *Identifier {
	return &Identifier{Token: token.Token{Type: token.IDENT, Literal: name}, Value: name}
}

func integer(lit string, v int64) *IntegerLiteral {
	return &IntegerLiteral{Token: token.Token{Type: token.INT, Literal: lit}, Value: v}
}

func exprStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Token: token.Token{Literal: e.TokenLiteral()}, Expression: e}
}

func TestExpressionString(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{
			&PrefixExpression{Operator: "-", Right: ident("a")},
			"(-a)",
		},
		{
			&InfixExpression{Left: ident("a"), Operator: "*", Right: integer("5", 5)},
			"(a * 5)",
		},
		{
			&StringLiteral{Token: token.Token{Type: token.STRING, Literal: "hi there"}, Value: "hi there"},
			`"hi there"`,
		},
		{
			&Boolean{Token: token.Token{Type: token.TRUE, Literal: "true"}, Value: true},
			"true",
		},
		{
			&IfExpression{
				Token:       token.Token{Type: token.IF, Literal: "if"},
				Condition:   ident("x"),
				Consequence: &BlockStatement{Statements: []Statement{exprStmt(ident("y"))}},
			},
			"if (x) { y }",
		},
		{
			&IfExpression{
				Token:       token.Token{Type: token.IF, Literal: "if"},
				Condition:   ident("x"),
				Consequence: &BlockStatement{},
				Alternative: &BlockStatement{Statements: []Statement{exprStmt(ident("a")), exprStmt(ident("b"))}},
			},
			"if (x) { } else { a; b }",
		},
		{
			&FunctionLiteral{
				Token:      token.Token{Type: token.FUNCTION, Literal: "fn"},
				Parameters: []*Identifier{ident("x"), ident("y")},
				Body: &BlockStatement{Statements: []Statement{
					&ReturnStatement{
						Token:       token.Token{Type: token.RETURN, Literal: "return"},
						ReturnValue: &InfixExpression{Left: ident("x"), Operator: "+", Right: ident("y")},
					},
				}},
			},
			"fn(x, y) { return (x + y); }",
		},
		{
			&CallExpression{Function: ident("add"), Arguments: []Expression{integer("1", 1), ident("b")}},
			"add(1, b)",
		},
		{
			&CallExpression{Function: ident("f")},
			"f()",
		},
		{
			&BadExpression{Token: token.Token{Type: token.RPAREN, Literal: ")"}},
			"<bad expression>",
		},
	}

	for i, tt := range tests {
		if got := tt.node.String(); got != tt.expected {
			t.Errorf("tests[%d] String() wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestProgramStringSeparatesExpressionStatements(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			exprStmt(&InfixExpression{Left: integer("3", 3), Operator: "+", Right: integer("4", 4)}),
			exprStmt(ident("a")),
			&ReturnStatement{Token: token.Token{Type: token.RETURN, Literal: "return"}, ReturnValue: ident("a")},
		},
	}

	expected := "(3 + 4);\na;\nreturn a;"
	if program.String() != expected {
		t.Errorf("program.String() wrong. expected=%q, got=%q", expected, program.String())
	}
}

func TestTokenLiteral(t *testing.T) {
	program := &Program{}
	if program.TokenLiteral() != "" {
		t.Errorf("empty program TokenLiteral wrong. got=%q", program.TokenLiteral())
	}

	program.Statements = []Statement{
		&LetStatement{Token: token.Token{Type: token.LET, Literal: "let"}, Name: ident("x"), Value: integer("1", 1)},
	}
	if program.TokenLiteral() != "let" {
		t.Errorf("program TokenLiteral wrong. got=%q", program.TokenLiteral())
	}
}

func TestInspect(t *testing.T) {
	// let f = fn(x) { if (x) { -x } else { g(x, 1) } };
	fn := &FunctionLiteral{
		Token:      token.Token{Type: token.FUNCTION, Literal: "fn"},
		Parameters: []*Identifier{ident("x")},
		Body: &BlockStatement{Statements: []Statement{
			exprStmt(&IfExpression{
				Condition:   ident("x"),
				Consequence: &BlockStatement{Statements: []Statement{exprStmt(&PrefixExpression{Operator: "-", Right: ident("x")})}},
				Alternative: &BlockStatement{Statements: []Statement{
					exprStmt(&CallExpression{Function: ident("g"), Arguments: []Expression{ident("x"), integer("1", 1)}}),
				}},
			}),
		}},
	}
	program := &Program{Statements: []Statement{
		&LetStatement{Token: token.Token{Type: token.LET, Literal: "let"}, Name: ident("f"), Value: fn},
	}}

	var idents []string
	Inspect(program, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			idents = append(idents, id.Value)
		}
		return true
	})

	expected := []string{"f", "x", "x", "x", "g", "x"}
	if len(idents) != len(expected) {
		t.Fatalf("visited identifiers wrong. expected=%v, got=%v", expected, idents)
	}
	for i := range expected {
		if idents[i] != expected[i] {
			t.Errorf("idents[%d] wrong. expected=%q, got=%q", i, expected[i], idents[i])
		}
	}

	// Program, Let, f, Fn, x, Block, ExprStmt, If, x, Block, ExprStmt, Prefix, x,
	// Block, ExprStmt, Call, g, x, 1
	if n := Count(program); n != 19 {
		t.Errorf("Count wrong. expected=19, got=%d", n)
	}

	if HasBadExpression(program) {
		t.Errorf("HasBadExpression reported a bad expression in a valid tree")
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	program := &Program{Statements: []Statement{
		exprStmt(&InfixExpression{Left: ident("a"), Operator: "+", Right: &BadExpression{}}),
	}}

	visited := 0
	Inspect(program, func(n Node) bool {
		visited++
		_, isInfix := n.(*InfixExpression)
		return !isInfix
	})
	if visited != 3 {
		t.Errorf("visited wrong. expected=3, got=%d", visited)
	}

	if !HasBadExpression(program) {
		t.Errorf("HasBadExpression did not find the bad expression")
	}
}
