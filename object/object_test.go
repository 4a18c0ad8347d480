package object

import (
	"testing"

	"minimonkey/ast"
	"minimonkey/token"
)

func TestInspect(t *testing.T) {
	body := &ast.BlockStatement{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.InfixExpression{
			Left:     &ast.Identifier{Token: token.Token{Type: token.IDENT, Literal: "x"}, Value: "x"},
			Operator: "+",
			Right:    &ast.IntegerLiteral{Token: token.Token{Type: token.INT, Literal: "2"}, Value: 2},
		}},
	}}

	tests := []struct {
		obj          Object
		expectedType ObjectType
		expected     string
	}{
		{&Integer{Value: -7}, INTEGER_OBJ, "-7"},
		{TRUE, BOOLEAN_OBJ, "true"},
		{FALSE, BOOLEAN_OBJ, "false"},
		{NULL, NULL_OBJ, "null"},
		{&String{Value: "hello"}, STRING_OBJ, "hello"},
		{&ReturnValue{Value: &Integer{Value: 1}}, RETURN_VALUE_OBJ, "1"},
		{Errorf("identifier not found: %s", "x"), ERROR_OBJ, "ERROR: identifier not found: x"},
		{
			&Function{
				Parameters: []*ast.Identifier{{Token: token.Token{Type: token.IDENT, Literal: "x"}, Value: "x"}},
				Body:       body,
				Env:        NewEnvironment(),
			},
			FUNCTION_OBJ,
			"fn(x) { (x + 2) }",
		},
	}

	for i, tt := range tests {
		if tt.obj.Type() != tt.expectedType {
			t.Errorf("tests[%d] Type() wrong. expected=%q, got=%q", i, tt.expectedType, tt.obj.Type())
		}
		if tt.obj.Inspect() != tt.expected {
			t.Errorf("tests[%d] Inspect() wrong. expected=%q, got=%q", i, tt.expected, tt.obj.Inspect())
		}
	}
}

func TestNativeBoolReturnsSingletons(t *testing.T) {
	if NativeBool(true) != TRUE {
		t.Errorf("NativeBool(true) is not the TRUE singleton")
	}
	if NativeBool(false) != FALSE {
		t.Errorf("NativeBool(false) is not the FALSE singleton")
	}
}

func TestEnvironmentChain(t *testing.T) {
	root := NewEnvironment()
	root.Set("a", &Integer{Value: 1})
	root.Set("b", &Integer{Value: 2})

	inner := NewEnclosedEnvironment(root)
	inner.Set("b", &Integer{Value: 20})
	inner.Set("c", &Integer{Value: 30})

	tests := []struct {
		env      *Environment
		name     string
		expected int64
		found    bool
	}{
		{inner, "a", 1, true},
		{inner, "b", 20, true},
		{inner, "c", 30, true},
		{root, "b", 2, true},
		{root, "c", 0, false},
		{inner, "d", 0, false},
	}

	for _, tt := range tests {
		obj, ok := tt.env.Get(tt.name)
		if ok != tt.found {
			t.Errorf("Get(%q) found wrong. expected=%t, got=%t", tt.name, tt.found, ok)
			continue
		}
		if !ok {
			continue
		}
		integer, isInt := obj.(*Integer)
		if !isInt || integer.Value != tt.expected {
			t.Errorf("Get(%q) wrong. expected=%d, got=%v", tt.name, tt.expected, obj)
		}
	}

	if inner.Outer() != root {
		t.Errorf("inner.Outer() is not root")
	}
	if root.Outer() != nil {
		t.Errorf("root.Outer() is not nil")
	}
}
