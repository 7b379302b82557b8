package reqline

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts an AST node (from ParseAST or ToNode) back to request text.
func Render(node ast.SchemaNode) ([]byte, error) {
	req, err := NodeToRequest(node)
	if err != nil {
		return nil, fmt.Errorf("reqline: Render: %w", err)
	}
	return Marshal(req)
}
