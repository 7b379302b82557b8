package reqline

import (
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-reqline/internal/parser"
)

// ToNode converts a ParsedRequest to an AST ObjectNode.
func ToNode(req *ParsedRequest) ast.SchemaNode {
	return parser.RequestToNode(toInternal(req))
}

// NodeToRequest converts an AST ObjectNode (as produced by ParseAST or ToNode)
// to a ParsedRequest.
func NodeToRequest(node ast.SchemaNode) (*ParsedRequest, error) {
	req, err := parser.NodeToRequest(node)
	if err != nil {
		return nil, err
	}
	return fromInternal(req), nil
}

// NodeToInterface converts a request node to plain Go values: the object
// becomes a map[string]interface{}, headers a nested map, literals their value.
// Other node kinds yield nil.
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]interface{}, len(props))
		for k, v := range props {
			m[k] = NodeToInterface(v)
		}
		return m
	default:
		return nil
	}
}
