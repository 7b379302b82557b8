package reqline

import (
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

func TestToNode_NodeToRequest(t *testing.T) {
	req := &ParsedRequest{Method: "GET", URL: "/x", Headers: map[string]string{"Host": "a"}}
	back, err := NodeToRequest(ToNode(req))
	if err != nil {
		t.Fatalf("NodeToRequest() error = %v", err)
	}
	if !req.Equal(back) {
		t.Errorf("got %+v, want %+v", back, req)
	}
}

func TestToNode_NilHeaders(t *testing.T) {
	node := ToNode(&ParsedRequest{Method: "GET", URL: "/"})
	obj := node.(*ast.ObjectNode)
	if _, ok := obj.Properties()["headers"].(*ast.ObjectNode); !ok {
		t.Error("headers property should be an ObjectNode")
	}
}

func TestNodeToInterface(t *testing.T) {
	node, err := ParseAST("GET /x HTTP/1.1\nA: 1\n")
	if err != nil {
		t.Fatalf("ParseAST() error = %v", err)
	}
	m, ok := NodeToInterface(node).(map[string]interface{})
	if !ok {
		t.Fatalf("NodeToInterface() type = %T", NodeToInterface(node))
	}
	if m["method"] != "GET" {
		t.Errorf("method = %v", m["method"])
	}
	hdrs := m["headers"].(map[string]interface{})
	if hdrs["A"] != "1" {
		t.Errorf("headers = %v", hdrs)
	}
}

func TestNodeToInterface_ArrayIsNil(t *testing.T) {
	node := ast.NewArrayDataNode([]ast.SchemaNode{ast.NewLiteralNode("x", ast.Position{})}, ast.Position{})
	if got := NodeToInterface(node); got != nil {
		t.Errorf("NodeToInterface(array) = %v, want nil", got)
	}
}

func TestRender(t *testing.T) {
	node, err := ParseAST("GET /x HTTP/1.1\nB: 2\nA: 1\n\n")
	if err != nil {
		t.Fatalf("ParseAST() error = %v", err)
	}
	out, err := Render(node)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != "GET /x HTTP/1.1\nA: 1\nB: 2\n\n" {
		t.Errorf("Render() = %q", out)
	}
}

func TestRender_NotObject(t *testing.T) {
	if _, err := Render(ast.NewLiteralNode("x", ast.Position{})); err == nil {
		t.Error("Render() error = nil for literal node")
	}
}
